package models

// Status is the snapshot returned by get_status.
type Status struct {
	Seq           uint64          `json:"seq"`
	TsMs          int64           `json:"ts_ms"`
	AgeMs         int64           `json:"age_ms"`
	State         RunState        `json:"state"`
	Device        DeviceState     `json:"device"`
	Sample        Sample          `json:"sample"`
	Ds18OK        bool            `json:"ds18_ok"`
	BmeOK         bool            `json:"bme_ok"`
	AdcOK         bool            `json:"adc_ok"`
	Sensors       []SensorHealth  `json:"sensors"`
	Session       SessionSnapshot `json:"session"`
	Totals        SessionTotals   `json:"totals"`
	RunRemainingS int64           `json:"run_remaining_s"`
	LastWarning   int             `json:"last_warning"`
	LastError     int             `json:"last_error"`
	Epoch         int64           `json:"epoch"`
	RtcCalibrated bool            `json:"rtc_calibrated"`
}

// DeviceInfo identifies the controller.
type DeviceInfo struct {
	DeviceID   string `json:"device_id"`
	DeviceName string `json:"device_name"`
	SW         string `json:"sw"`
	HW         string `json:"hw"`
}
