package models

// FaultCode identifies why the protection latched. Values double as the
// error event code emitted on trip.
type FaultCode int

const (
	FaultNone        FaultCode = 0
	FaultOvercurrent FaultCode = 1
	FaultOvertemp    FaultCode = 2
	FaultSensorLost  FaultCode = 5
)

func (f FaultCode) String() string {
	switch f {
	case FaultNone:
		return "none"
	case FaultOvercurrent:
		return "overcurrent"
	case FaultOvertemp:
		return "overtemp"
	case FaultSensorLost:
		return "sensor_lost"
	default:
		return "unknown"
	}
}

// RunState is the externally visible machine state.
type RunState string

const (
	StateIdle    RunState = "Idle"
	StateRunning RunState = "Running"
	StateFault   RunState = "Fault"
)

// DeviceState is owned by the protection state machine.
// FaultLatched implies !RelayOn.
type DeviceState struct {
	RelayOn      bool      `json:"relay_on"`
	DesiredOn    bool      `json:"desired_on"`
	FaultLatched bool      `json:"fault_latched"`
	FaultCode    FaultCode `json:"fault_code"`
	TripMs       int64     `json:"trip_ms"`
	OvcOverMs    int64     `json:"ovc_over_ms"`
	AdcFailMs    int64     `json:"adc_fail_ms"`
	// RunUntilMs is zero when no run timer is pending.
	RunUntilMs int64 `json:"run_until_ms,omitempty"`
}

// State derives Idle/Running/Fault.
func (s DeviceState) State() RunState {
	switch {
	case s.FaultLatched:
		return StateFault
	case s.RelayOn:
		return StateRunning
	default:
		return StateIdle
	}
}

// HasRunTimer reports whether a run timer is pending.
func (s DeviceState) HasRunTimer() bool {
	return s.RunUntilMs > 0
}
