// Package session accounts energized intervals: energy, peaks and a
// bounded log of finalized sessions.
package session

import (
	"math"

	"controlling_motor/internal/models"
)

// DefaultCapacity is the number of finalized sessions kept in memory.
const DefaultCapacity = 50

// Tracker is not safe for concurrent use; the controller serializes it.
type Tracker struct {
	capacity int

	active       bool
	startEpoch   int64
	startMs      int64
	energyWh     float64
	peakPowerW   float64
	peakCurrentA float64

	log    []models.Session
	totals models.SessionTotals
}

// NewTracker seeds the log with previously persisted sessions, oldest first.
func NewTracker(capacity int, history []models.Session) *Tracker {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	t := &Tracker{capacity: capacity}
	for _, s := range history {
		t.push(s)
	}
	return t
}

// Active reports whether a session is open.
func (t *Tracker) Active() bool { return t.active }

// Open starts a session. It is a no-op when one is already open.
func (t *Tracker) Open(nowMs, epoch int64) bool {
	if t.active {
		return false
	}
	t.active = true
	t.startEpoch = epoch
	t.startMs = nowMs
	t.energyWh = 0
	t.peakPowerW = 0
	t.peakCurrentA = 0
	return true
}

// Accumulate integrates power over dtMs and tracks peaks. Ignored when no
// session is open.
func (t *Tracker) Accumulate(powerW, currentA float64, dtMs int64) {
	if !t.active {
		return
	}
	if dtMs > 0 {
		t.energyWh += powerW * float64(dtMs) / 1000 / 3600
	}
	t.peakPowerW = math.Max(t.peakPowerW, math.Abs(powerW))
	t.peakCurrentA = math.Max(t.peakCurrentA, math.Abs(currentA))
}

// Close finalizes the open session and appends it to the log. The second
// return value is false when no session was open.
func (t *Tracker) Close(nowMs, epoch int64, success bool) (models.Session, bool) {
	if !t.active {
		return models.Session{}, false
	}
	t.active = false
	elapsed := nowMs - t.startMs
	if elapsed < 0 {
		elapsed = 0
	}
	s := models.Session{
		StartEpoch:   t.startEpoch,
		EndEpoch:     epoch,
		DurationS:    elapsed / 1000,
		EnergyWh:     round(t.energyWh, 2),
		PeakPowerW:   round(t.peakPowerW, 1),
		PeakCurrentA: round(t.peakCurrentA, 2),
		Success:      success,
	}
	t.push(s)
	return s, true
}

func (t *Tracker) push(s models.Session) {
	t.log = append(t.log, s)
	if len(t.log) > t.capacity {
		t.log = append(t.log[:0:0], t.log[len(t.log)-t.capacity:]...)
	}
	t.totals.Sessions++
	if s.Success {
		t.totals.Successful++
	}
	t.totals.TotalEnergyWh = round(t.totals.TotalEnergyWh+s.EnergyWh, 2)
}

// List returns finalized sessions, oldest first.
func (t *Tracker) List() []models.Session {
	out := make([]models.Session, len(t.log))
	copy(out, t.log)
	return out
}

// Snapshot describes the open session at nowMs.
func (t *Tracker) Snapshot(nowMs int64) models.SessionSnapshot {
	if !t.active {
		return models.SessionSnapshot{}
	}
	return models.SessionSnapshot{
		Active:       true,
		StartEpoch:   t.startEpoch,
		DurationS:    (nowMs - t.startMs) / 1000,
		EnergyWh:     round(t.energyWh, 2),
		PeakPowerW:   round(t.peakPowerW, 1),
		PeakCurrentA: round(t.peakCurrentA, 2),
	}
}

func (t *Tracker) Totals() models.SessionTotals { return t.totals }

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
