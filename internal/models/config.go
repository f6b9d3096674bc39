package models

import "math"

// OvcMode selects how an overcurrent trip is recovered.
type OvcMode int

const (
	OvcLatch     OvcMode = 0
	OvcAutoRetry OvcMode = 1
)

func (m OvcMode) String() string {
	if m == OvcAutoRetry {
		return "auto"
	}
	return "latch"
}

// Sampling rate bounds in Hz.
const (
	MinSamplingHz = 1
	MaxSamplingHz = 200
)

// DeviceConfig is the operator-tunable configuration. It is replaced as a
// whole on every update and never mutated in place.
type DeviceConfig struct {
	LimitCurrentA float64 `json:"limit_current_a"`
	OvcMode       OvcMode `json:"ovc_mode"`
	OvcMinMs      int64   `json:"ovc_min_ms"`
	OvcRetryMs    int64   `json:"ovc_retry_ms"`
	TempMotorC    float64 `json:"temp_motor_c"`
	TempBoardC    float64 `json:"temp_board_c"`
	TempAmbientC  float64 `json:"temp_ambient_c"`
	TempHystC     float64 `json:"temp_hyst_c"`
	LatchOvertemp bool    `json:"latch_overtemp"`
	MotorVccV     float64 `json:"motor_vcc_v"`
	SamplingHz    int     `json:"sampling_hz"`
	BuzzerEnabled bool    `json:"buzzer_enabled"`
	RunMaxS       int     `json:"run_max_s"`
}

// DefaultDeviceConfig returns factory defaults.
func DefaultDeviceConfig() DeviceConfig {
	return DeviceConfig{
		LimitCurrentA: 18,
		OvcMode:       OvcLatch,
		OvcMinMs:      40,
		OvcRetryMs:    5000,
		TempMotorC:    85,
		TempBoardC:    70,
		TempAmbientC:  60,
		TempHystC:     5,
		LatchOvertemp: true,
		MotorVccV:     12,
		SamplingHz:    50,
		BuzzerEnabled: true,
		RunMaxS:       3600,
	}
}

// ClampSamplingHz bounds hz to [MinSamplingHz, MaxSamplingHz].
func ClampSamplingHz(hz int) int {
	switch {
	case hz < MinSamplingHz:
		return MinSamplingHz
	case hz > MaxSamplingHz:
		return MaxSamplingHz
	}
	return hz
}

// SamplePeriodMs is the tick spacing derived from the clamped sampling rate.
func (c DeviceConfig) SamplePeriodMs() int64 {
	return int64(math.Round(1000 / float64(ClampSamplingHz(c.SamplingHz))))
}

// ConfigPatch is a partial update. Nil means leave as-is.
type ConfigPatch struct {
	LimitCurrentA *float64
	OvcMode       *OvcMode
	OvcMinMs      *int64
	OvcRetryMs    *int64
	TempMotorC    *float64
	TempBoardC    *float64
	TempAmbientC  *float64
	TempHystC     *float64
	LatchOvertemp *bool
	MotorVccV     *float64
	SamplingHz    *int
	BuzzerEnabled *bool
	RunMaxS       *int
}

// Empty reports whether the patch carries no field.
func (p ConfigPatch) Empty() bool {
	return p == ConfigPatch{}
}

// Apply returns a copy of c with the patch fields applied. The sampling
// rate is clamped; negative durations and limits are ignored.
func (c DeviceConfig) Apply(p ConfigPatch) DeviceConfig {
	if p.LimitCurrentA != nil && *p.LimitCurrentA >= 0 {
		c.LimitCurrentA = *p.LimitCurrentA
	}
	if p.OvcMode != nil && (*p.OvcMode == OvcLatch || *p.OvcMode == OvcAutoRetry) {
		c.OvcMode = *p.OvcMode
	}
	if p.OvcMinMs != nil && *p.OvcMinMs >= 0 {
		c.OvcMinMs = *p.OvcMinMs
	}
	if p.OvcRetryMs != nil && *p.OvcRetryMs >= 0 {
		c.OvcRetryMs = *p.OvcRetryMs
	}
	if p.TempMotorC != nil {
		c.TempMotorC = *p.TempMotorC
	}
	if p.TempBoardC != nil {
		c.TempBoardC = *p.TempBoardC
	}
	if p.TempAmbientC != nil {
		c.TempAmbientC = *p.TempAmbientC
	}
	if p.TempHystC != nil && *p.TempHystC >= 0 {
		c.TempHystC = *p.TempHystC
	}
	if p.LatchOvertemp != nil {
		c.LatchOvertemp = *p.LatchOvertemp
	}
	if p.MotorVccV != nil && *p.MotorVccV >= 0 {
		c.MotorVccV = *p.MotorVccV
	}
	if p.SamplingHz != nil {
		c.SamplingHz = ClampSamplingHz(*p.SamplingHz)
	}
	if p.BuzzerEnabled != nil {
		c.BuzzerEnabled = *p.BuzzerEnabled
	}
	if p.RunMaxS != nil && *p.RunMaxS > 0 {
		c.RunMaxS = *p.RunMaxS
	}
	return c
}

// Calibration maps the current sensor voltage to amperes.
type Calibration struct {
	ZeroMv     float64 `json:"zero_mv"`
	SensMvA    float64 `json:"sens_mv_a"`
	InputScale float64 `json:"input_scale"`
}

// DefaultCalibration matches a 2.5 V midpoint, 100 mV/A sensor wired straight to the ADC.
func DefaultCalibration() Calibration {
	return Calibration{ZeroMv: 2500, SensMvA: 100, InputScale: 1}
}

// CurrentA converts an ADC voltage to amperes.
func (c Calibration) CurrentA(adcMv float64) float64 {
	scale := c.InputScale
	if scale <= 0 {
		scale = 1
	}
	if c.SensMvA <= 0 {
		return 0
	}
	return (adcMv/scale - c.ZeroMv) / c.SensMvA
}

// CalibrationPatch is a partial calibration update. Nil means leave as-is.
type CalibrationPatch struct {
	ZeroMv     *float64
	SensMvA    *float64
	InputScale *float64
}

// Apply returns a copy of c with positive patch values applied.
func (c Calibration) Apply(p CalibrationPatch) Calibration {
	if p.ZeroMv != nil && *p.ZeroMv > 0 {
		c.ZeroMv = *p.ZeroMv
	}
	if p.SensMvA != nil && *p.SensMvA > 0 {
		c.SensMvA = *p.SensMvA
	}
	if p.InputScale != nil && *p.InputScale > 0 {
		c.InputScale = *p.InputScale
	}
	return c
}
