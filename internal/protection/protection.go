// Package protection is the fault-protection state machine. Every entry
// point is a pure function from (state, inputs, config, now) to a Result;
// the caller owns the state and applies the result.
package protection

import (
	"controlling_motor/internal/models"
)

// SensorLossTripMs is how long the current measurement may stay
// unavailable while energized before the relay is tripped.
const SensorLossTripMs = 2500

// Input is the per-tick view of the measurements protection cares about.
type Input struct {
	CurrentA float64
	MotorC   float64
	BoardC   float64
	// CurrentOK is the health of the current measurement.
	CurrentOK bool
	DtMs      int64
}

// RelayChange describes a relay transition produced by an evaluation or a
// command. Success is meaningful only for an off transition.
type RelayChange struct {
	Changed bool
	On      bool
	Success bool
}

// Result is the outcome of Evaluate or a command.
type Result struct {
	State  models.DeviceState
	Events []models.Event
	Relay  RelayChange

	// forced is set when a trip opened the relay as a failure.
	forced bool
}

var tripMessages = map[models.FaultCode]string{
	models.FaultOvercurrent: "Overcurrent",
	models.FaultOvertemp:    "Overtemperature",
	models.FaultSensorLost:  "Current measurement lost",
}

// Evaluate runs one tick: run-timer expiry, auto-recovery, the protection
// rules and finally relay resolution.
func Evaluate(st models.DeviceState, in Input, cfg models.DeviceConfig, now int64) Result {
	r := Result{State: st}
	wasOn := st.RelayOn

	if r.State.HasRunTimer() && now >= r.State.RunUntilMs {
		r.State.RunUntilMs = 0
		r.State.DesiredOn = false
	}

	r.recover(in, cfg, now)

	if r.State.RelayOn && !r.State.FaultLatched {
		r.checkOvercurrent(in, cfg, now)
		r.checkOvertemp(in, cfg, now)
		r.checkSensorLoss(in, cfg, now)
	}

	switch {
	case r.State.FaultLatched:
		r.State.RelayOn = false
	case r.State.DesiredOn:
		r.State.RelayOn = true
	default:
		r.State.RelayOn = false
	}

	r.relayMoved(wasOn)
	return r
}

func (r *Result) relayMoved(wasOn bool) {
	if wasOn == r.State.RelayOn {
		return
	}
	r.Relay = RelayChange{Changed: true, On: r.State.RelayOn, Success: !r.State.RelayOn && !r.forced}
}

func (r *Result) recover(in Input, cfg models.DeviceConfig, now int64) {
	st := &r.State
	if !st.FaultLatched {
		return
	}
	switch st.FaultCode {
	case models.FaultOvercurrent:
		if cfg.OvcMode == models.OvcAutoRetry && now-st.TripMs >= cfg.OvcRetryMs {
			clearFault(st)
			st.DesiredOn = true
		}
	case models.FaultOvertemp:
		if !cfg.LatchOvertemp &&
			in.MotorC < cfg.TempMotorC-cfg.TempHystC &&
			in.BoardC < cfg.TempBoardC-cfg.TempHystC {
			clearFault(st)
		}
	}
}

func (r *Result) checkOvercurrent(in Input, cfg models.DeviceConfig, now int64) {
	st := &r.State
	if cfg.LimitCurrentA <= 0 || in.CurrentA <= cfg.LimitCurrentA {
		st.OvcOverMs = 0
		return
	}
	st.OvcOverMs += in.DtMs
	if st.OvcOverMs >= cfg.OvcMinMs {
		r.trip(models.FaultOvercurrent, cfg, now)
	}
}

func (r *Result) checkOvertemp(in Input, cfg models.DeviceConfig, now int64) {
	if in.MotorC >= cfg.TempMotorC || in.BoardC >= cfg.TempBoardC {
		r.trip(models.FaultOvertemp, cfg, now)
	}
}

func (r *Result) checkSensorLoss(in Input, cfg models.DeviceConfig, now int64) {
	st := &r.State
	if in.CurrentOK {
		st.AdcFailMs = 0
		return
	}
	st.AdcFailMs += in.DtMs
	if st.AdcFailMs >= SensorLossTripMs {
		r.trip(models.FaultSensorLost, cfg, now)
	}
}

// trip latches code. Tripping while latched does nothing.
func (r *Result) trip(code models.FaultCode, cfg models.DeviceConfig, now int64) {
	st := &r.State
	if st.FaultLatched {
		return
	}
	retry := code == models.FaultOvercurrent && cfg.OvcMode == models.OvcAutoRetry

	st.FaultLatched = true
	st.FaultCode = code
	st.TripMs = now
	st.DesiredOn = retry
	st.RunUntilMs = 0
	// an auto-retry trip is a pause, the session ends cleanly
	r.forced = !retry
	st.RelayOn = false

	ev := models.Error(int(code), tripMessages[code], models.SourceProtection)
	ev.TsMs = now
	r.Events = append(r.Events, ev)
}

func clearFault(st *models.DeviceState) {
	st.FaultLatched = false
	st.FaultCode = models.FaultNone
	st.TripMs = 0
	st.OvcOverMs = 0
	st.AdcFailMs = 0
}
