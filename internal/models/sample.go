package models

// Sample is one control-loop measurement. Seq is assigned by the sample log.
type Sample struct {
	Seq        uint64  `json:"seq"`
	TsMs       int64   `json:"ts_ms"`
	CurrentA   float64 `json:"current_a"`
	PowerW     float64 `json:"power_w"`
	MotorC     float64 `json:"motor_c"`
	BoardC     float64 `json:"bme_c"`
	AmbientC   float64 `json:"ambient_c"`
	PressurePa float64 `json:"bme_pa"`
}
