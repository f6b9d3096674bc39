// Package sensor tracks per-sensor health with intermittent dropouts and
// serves the last good reading while a sensor is unhealthy.
package sensor

import (
	"controlling_motor/internal/models"
)

// Rand is the random source used for glitch timing. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
}

// Window is an inclusive-exclusive millisecond range [MinMs, MaxMs).
type Window struct {
	MinMs int64
	MaxMs int64
}

func (w Window) pick(r Rand) int64 {
	if w.MaxMs <= w.MinMs || r == nil {
		return w.MinMs
	}
	return w.MinMs + int64(r.Float64()*float64(w.MaxMs-w.MinMs))
}

// Profile describes one physical sensor.
type Profile struct {
	Name          string
	AbsentCode    int
	AbsentMessage string
	// CacheWarning adds the shared "cached value in use" event on loss.
	CacheWarning bool
	// Glitches enables the stochastic dropout schedule.
	Glitches      bool
	FirstGlitchMs int64
	Drop          Window
	Interval      Window
}

// Built-in profiles.
var (
	MotorProbe = Profile{
		Name:          models.SensorMotor,
		AbsentCode:    models.WarnMotorSensorAbsent,
		AbsentMessage: "Motor temperature sensor absent",
		CacheWarning:  true,
		Glitches:      true,
		FirstGlitchMs: 45_000,
		Drop:          Window{MinMs: 8_000, MaxMs: 16_000},
		Interval:      Window{MinMs: 45_000, MaxMs: 120_000},
	}
	ClimateProbe = Profile{
		Name:          models.SensorBoard,
		AbsentCode:    models.WarnBoardSensorAbsent,
		AbsentMessage: "Board sensor absent",
		CacheWarning:  true,
		Glitches:      true,
		FirstGlitchMs: 90_000,
		Drop:          Window{MinMs: 5_000, MaxMs: 12_000},
		Interval:      Window{MinMs: 70_000, MaxMs: 160_000},
	}
	CurrentADC = Profile{
		Name:          models.SensorADC,
		AbsentCode:    models.WarnAdcSaturated,
		AbsentMessage: "Current ADC saturated",
	}
)

// Tracker owns the health of one sensor. Not safe for concurrent use.
type Tracker[T any] struct {
	profile    Profile
	rnd        Rand
	ok         bool
	cached     T
	hasCached  bool
	dropUntil  int64
	nextGlitch int64
}

// NewTracker starts healthy with the first glitch scheduled at
// now + FirstGlitchMs when glitches are enabled.
func NewTracker[T any](p Profile, rnd Rand, now int64) *Tracker[T] {
	t := &Tracker[T]{profile: p, rnd: rnd, ok: true}
	if p.Glitches {
		t.nextGlitch = now + p.FirstGlitchMs
	}
	return t
}

// Tick advances the dropout schedule and returns the events produced by a
// transition to unhealthy.
func (t *Tracker[T]) Tick(now int64) []models.Event {
	if !t.ok {
		if now >= t.dropUntil {
			t.ok = true
			t.dropUntil = 0
		}
		return nil
	}
	if !t.profile.Glitches || now < t.nextGlitch {
		return nil
	}
	t.nextGlitch = now + t.profile.Interval.pick(t.rnd)
	return t.drop(now, t.profile.Drop.pick(t.rnd))
}

// Fail forces the sensor unhealthy for windowMs. A sensor that is already
// unhealthy keeps its current recovery time and nothing is emitted.
func (t *Tracker[T]) Fail(now, windowMs int64) []models.Event {
	if !t.ok {
		return nil
	}
	return t.drop(now, windowMs)
}

func (t *Tracker[T]) drop(now, windowMs int64) []models.Event {
	t.ok = false
	t.dropUntil = now + windowMs
	evs := []models.Event{models.Warning(t.profile.AbsentCode, t.profile.AbsentMessage, models.SourceSensor)}
	if t.profile.CacheWarning {
		evs = append(evs, models.Warning(models.WarnCachedValue, "Cached value used", models.SourceSensor))
	}
	for i := range evs {
		evs[i].TsMs = now
	}
	return evs
}

// Read returns raw while healthy and remembers it. While unhealthy it
// returns the last good value, or raw if none was ever seen.
func (t *Tracker[T]) Read(raw T) T {
	if t.ok {
		t.cached = raw
		t.hasCached = true
		return raw
	}
	if t.hasCached {
		return t.cached
	}
	return raw
}

func (t *Tracker[T]) OK() bool { return t.ok }

func (t *Tracker[T]) Name() string { return t.profile.Name }

// Health returns the public view.
func (t *Tracker[T]) Health() models.SensorHealth {
	h := models.SensorHealth{
		Name:         t.profile.Name,
		OK:           t.ok,
		DropUntilMs:  t.dropUntil,
		NextGlitchMs: t.nextGlitch,
	}
	if t.hasCached {
		h.CachedValue = t.cached
	}
	return h
}
