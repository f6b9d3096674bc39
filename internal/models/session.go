package models

// Session is one finalized energized interval.
type Session struct {
	ID           string  `json:"id,omitempty"`
	StartEpoch   int64   `json:"start_epoch"`
	EndEpoch     int64   `json:"end_epoch"`
	DurationS    int64   `json:"duration_s"`
	EnergyWh     float64 `json:"energy_wh"`
	PeakPowerW   float64 `json:"peak_power_w"`
	PeakCurrentA float64 `json:"peak_current_a"`
	Success      bool    `json:"success"`
}

// SessionSnapshot describes the open session, if any.
type SessionSnapshot struct {
	Active       bool    `json:"active"`
	StartEpoch   int64   `json:"start_epoch,omitempty"`
	DurationS    int64   `json:"duration_s"`
	EnergyWh     float64 `json:"energy_wh"`
	PeakPowerW   float64 `json:"peak_power_w"`
	PeakCurrentA float64 `json:"peak_current_a"`
}

// SessionTotals aggregates finalized sessions since boot plus reloaded history.
type SessionTotals struct {
	Sessions      int     `json:"sessions"`
	Successful    int     `json:"successful"`
	TotalEnergyWh float64 `json:"total_energy_wh"`
}
