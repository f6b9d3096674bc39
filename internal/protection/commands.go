package protection

import (
	"controlling_motor/internal/models"
)

// Start requests the relay on. A latched fault that would recover on its
// own (overcurrent in auto-retry mode, overtemperature without latching)
// is acknowledged as part of the start.
func Start(st models.DeviceState, cfg models.DeviceConfig) Result {
	if st.FaultLatched {
		switch {
		case st.FaultCode == models.FaultOvercurrent && cfg.OvcMode == models.OvcAutoRetry,
			st.FaultCode == models.FaultOvertemp && !cfg.LatchOvertemp:
			clearFault(&st)
		}
	}
	st.DesiredOn = true
	return Result{State: st}
}

// RelayOn requests the relay on without touching a latched fault.
func RelayOn(st models.DeviceState) Result {
	st.DesiredOn = true
	return Result{State: st}
}

// Stop drops the request, cancels any run timer and opens the relay now.
func Stop(st models.DeviceState) Result {
	r := Result{State: st}
	r.State.DesiredOn = false
	r.State.RunUntilMs = 0
	r.State.RelayOn = false
	r.relayMoved(st.RelayOn)
	return r
}

// RelayOff behaves like Stop.
func RelayOff(st models.DeviceState) Result {
	return Stop(st)
}

// ClearFault acknowledges a latched fault, leaves the relay requested off
// and drops any run timer. Without a latched fault it changes nothing.
func ClearFault(st models.DeviceState) Result {
	if !st.FaultLatched {
		return Result{State: st}
	}
	clearFault(&st)
	st.DesiredOn = false
	st.RunUntilMs = 0
	return Result{State: st}
}

// RunTimer clears any fault and runs for seconds, capped at cfg.RunMaxS.
// A later call replaces a pending timer; seconds <= 0 is ignored.
func RunTimer(st models.DeviceState, seconds int64, cfg models.DeviceConfig, now int64) Result {
	if seconds <= 0 {
		return Result{State: st}
	}
	if cfg.RunMaxS > 0 && seconds > int64(cfg.RunMaxS) {
		seconds = int64(cfg.RunMaxS)
	}
	if st.FaultLatched {
		clearFault(&st)
	}
	st.DesiredOn = true
	st.RunUntilMs = now + seconds*1000
	return Result{State: st}
}
