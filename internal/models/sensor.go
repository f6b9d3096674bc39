package models

// Sensor names.
const (
	SensorMotor = "ds18"
	SensorBoard = "bme"
	SensorADC   = "adc"
)

// SensorHealth is the public view of one tracker.
type SensorHealth struct {
	Name         string `json:"name"`
	OK           bool   `json:"ok"`
	CachedValue  any    `json:"cached_value,omitempty"`
	DropUntilMs  int64  `json:"drop_until_ms,omitempty"`
	NextGlitchMs int64  `json:"next_glitch_ms,omitempty"`
}
