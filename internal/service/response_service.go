package service

import "controlling_motor/internal/models"

// Calibration actions.
const (
	CalibrateCurrentZero        = "current_zero"
	CalibrateCurrentSensitivity = "current_sensitivity"
)

// CalibrateRequest selects a calibration action. The pointer fields are
// used by CalibrateCurrentSensitivity; nil leaves a value as-is.
type CalibrateRequest struct {
	Action     string   `json:"action" binding:"required"`
	ZeroMv     *float64 `json:"zero_mv,omitempty"`
	SensMvA    *float64 `json:"sens_mv_a,omitempty"`
	InputScale *float64 `json:"input_scale,omitempty"`
}

// ConfigUpdate is the configuration after an update plus the request keys
// whose values could not be converted.
type ConfigUpdate struct {
	models.DeviceConfig
	Ignored []string `json:"ignored,omitempty"`
}

// CalibrationUpdate is the calibration after a calibrate request plus the
// request keys whose values could not be converted.
type CalibrationUpdate struct {
	models.Calibration
	Ignored []string `json:"ignored,omitempty"`
}

// ControlRequest carries one control action.
type ControlRequest struct {
	Action string `json:"action" binding:"required"`
}

type RunTimerRequest struct {
	Seconds int64 `json:"seconds"`
}

type EpochRequest struct {
	Epoch int64 `json:"epoch" binding:"required"`
}
