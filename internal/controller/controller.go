// Package controller owns one device: its protection state, sensors,
// sessions and logs. A tick runs under the write lock so readers never
// observe half of one.
package controller

import (
	"errors"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"controlling_motor/internal/clock"
	"controlling_motor/internal/logger"
	"controlling_motor/internal/measure"
	"controlling_motor/internal/models"
	"controlling_motor/internal/protection"
	"controlling_motor/internal/sensor"
	"controlling_motor/internal/seqlog"
	"controlling_motor/internal/session"
)

// Log capacities.
const (
	SampleCapacity = 800
	EventCapacity  = 250
)

var (
	ErrUnknownAction   = errors.New("unknown action")
	ErrInvalidEpoch    = errors.New("epoch must be a positive number of seconds")
	ErrZeroUnsupported = errors.New("measurement source cannot capture a zero point")
)

// Output carries what a tick or command produced so the caller can
// persist and publish it after the lock is released.
type Output struct {
	Events   []models.Event
	Sessions []models.Session
}

func (o Output) Empty() bool {
	return len(o.Events) == 0 && len(o.Sessions) == 0
}

// Options configure a new Controller. Zero values pick defaults.
type Options struct {
	Clock       clock.Clock
	Rand        sensor.Rand
	Source      measure.Source
	Config      models.DeviceConfig
	Calibration models.Calibration
	History     []models.Session
	Glitches    bool
	Log         *logger.Logger
}

// zeroer is implemented by sources that can report the unloaded sensor voltage.
type zeroer interface {
	RestMillivolts() float64
}

type Controller struct {
	mu  sync.RWMutex
	clk clock.Clock
	log *logger.Logger

	cfg   models.DeviceConfig
	cal   models.Calibration
	state models.DeviceState

	motor   *sensor.Tracker[float64]
	climate *sensor.Tracker[measure.Climate]
	current *sensor.Tracker[float64]
	src     measure.Source
	gen     *measure.Generator

	sessions *session.Tracker
	samples  *seqlog.Log[models.Sample]
	events   *seqlog.Log[models.Event]

	lastTickMs  int64
	ticked      bool
	lastWarning int
	lastError   int
}

// New builds a controller at cold start. An uncalibrated clock is logged
// as a warning event.
func New(opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = clock.NewSystem()
	}
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	if opts.Config == (models.DeviceConfig{}) {
		opts.Config = models.DefaultDeviceConfig()
	}
	if opts.Calibration == (models.Calibration{}) {
		opts.Calibration = models.DefaultCalibration()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x6d6f746f72))
	}
	if opts.Source == nil {
		opts.Source = measure.NewSimulator(opts.Rand)
	}
	opts.Config.SamplingHz = models.ClampSamplingHz(opts.Config.SamplingHz)

	now := opts.Clock.NowMs()
	motorProfile, climateProfile := sensor.MotorProbe, sensor.ClimateProbe
	motorProfile.Glitches = opts.Glitches
	climateProfile.Glitches = opts.Glitches

	c := &Controller{
		clk:      opts.Clock,
		log:      opts.Log,
		cfg:      opts.Config,
		cal:      opts.Calibration,
		motor:    sensor.NewTracker[float64](motorProfile, opts.Rand, now),
		climate:  sensor.NewTracker[measure.Climate](climateProfile, opts.Rand, now),
		current:  sensor.NewTracker[float64](sensor.CurrentADC, opts.Rand, now),
		src:      opts.Source,
		sessions: session.NewTracker(session.DefaultCapacity, opts.History),
		samples: seqlog.New(SampleCapacity, func(s models.Sample, seq uint64) models.Sample {
			s.Seq = seq
			return s
		}),
		events: seqlog.New(EventCapacity, func(e models.Event, seq uint64) models.Event {
			e.Seq = seq
			return e
		}),
	}
	c.gen = measure.NewGenerator(c.src, measure.Sensors{Motor: c.motor, Climate: c.climate, Current: c.current})

	if !c.clk.Calibrated() {
		c.appendEvent(models.Warning(models.WarnClockNotSet, "RTC not calibrated", models.SourceClock), now)
	}
	return c
}

// Tick advances the device by one control period.
func (c *Controller) Tick() Output {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clk.NowMs()
	dt := c.cfg.SamplePeriodMs()
	if c.ticked {
		dt = max(now-c.lastTickMs, 0)
	}
	c.lastTickMs, c.ticked = now, true

	var pending []models.Event
	pending = append(pending, c.motor.Tick(now)...)
	pending = append(pending, c.climate.Tick(now)...)
	pending = append(pending, c.current.Tick(now)...)

	g := c.gen.Generate(measure.Input{NowMs: now, DtMs: dt, RelayOn: c.state.RelayOn}, c.cfg, c.cal)
	pending = append(pending, g.Events...)

	if c.sessions.Active() && !c.state.FaultLatched {
		c.sessions.Accumulate(g.Sample.PowerW, g.Sample.CurrentA, dt)
	}

	res := protection.Evaluate(c.state, protection.Input{
		CurrentA:  g.LiveCurrentA,
		MotorC:    g.Sample.MotorC,
		BoardC:    g.Sample.BoardC,
		CurrentOK: c.current.OK(),
		DtMs:      dt,
	}, c.cfg, now)

	var out Output
	for _, ev := range pending {
		out.Events = append(out.Events, c.appendEvent(ev, now))
	}
	applied := c.apply(res, now)
	out.Events = append(out.Events, applied.Events...)
	out.Sessions = applied.Sessions

	c.samples.Append(g.Sample)
	return out
}

// apply installs a protection result: state, session transitions, events.
func (c *Controller) apply(res protection.Result, now int64) Output {
	prev := c.state
	c.state = res.State

	var out Output
	if res.Relay.Changed {
		epoch := c.clk.EpochSec()
		if res.Relay.On {
			c.sessions.Open(now, epoch)
		} else if s, ok := c.sessions.Close(now, epoch, res.Relay.Success); ok {
			out.Sessions = append(out.Sessions, s)
			c.log.Infow("session closed", "duration_s", s.DurationS, "energy_wh", s.EnergyWh, "success", s.Success)
		}
	}
	if prev.FaultLatched && !c.state.FaultLatched {
		c.lastError = 0
		c.log.Infow("fault cleared", "code", prev.FaultCode.String())
	}
	for _, ev := range res.Events {
		out.Events = append(out.Events, c.appendEvent(ev, now))
	}
	return out
}

func (c *Controller) appendEvent(ev models.Event, now int64) models.Event {
	ev.TsMs = now
	ev = c.events.Append(ev)
	switch ev.Level {
	case models.LevelError:
		c.lastError = ev.Code
		c.log.Errorw(ev.Message, "code", ev.Code, "source", ev.Source, "seq", ev.Seq)
	default:
		c.lastWarning = ev.Code
		c.log.Warnw(ev.Message, "code", ev.Code, "source", ev.Source, "seq", ev.Seq)
	}
	return ev
}

// Raise appends an externally detected condition (authorization or
// storage failures) to the event log.
func (c *Controller) Raise(ev models.Event) Output {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Output{Events: []models.Event{c.appendEvent(ev, c.clk.NowMs())}}
}

// Period is the current tick spacing.
func (c *Controller) Period() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(c.cfg.SamplePeriodMs()) * time.Millisecond
}

// Status is a consistent snapshot between ticks.
func (c *Controller) Status() models.Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.clk.NowMs()
	latest, ok := c.samples.Latest()
	st := models.Status{
		State:         c.state.State(),
		Device:        c.state,
		Sample:        latest,
		Ds18OK:        c.motor.OK(),
		BmeOK:         c.climate.OK(),
		AdcOK:         c.current.OK(),
		Sensors:       []models.SensorHealth{c.motor.Health(), c.climate.Health(), c.current.Health()},
		Session:       c.sessions.Snapshot(now),
		Totals:        c.sessions.Totals(),
		LastWarning:   c.lastWarning,
		LastError:     c.lastError,
		Epoch:         c.clk.EpochSec(),
		RtcCalibrated: c.clk.Calibrated(),
	}
	if ok {
		st.Seq = latest.Seq
		st.TsMs = latest.TsMs
		st.AgeMs = now - latest.TsMs
	}
	if c.state.HasRunTimer() {
		st.RunRemainingS = int64(math.Ceil(float64(max(c.state.RunUntilMs-now, 0)) / 1000))
	}
	return st
}

// Samples serves a cursor query over the sample log.
func (c *Controller) Samples(since uint64, limit int) seqlog.Batch[models.Sample] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.samples.Query(since, limit)
}

// Events serves a cursor query over the event log.
func (c *Controller) Events(since uint64, limit int) seqlog.Batch[models.Event] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.events.Query(since, limit)
}

// Sessions lists finalized sessions, oldest first.
func (c *Controller) Sessions() []models.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessions.List()
}

// Totals reports aggregate counts over finalized sessions.
func (c *Controller) Totals() models.SessionTotals {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessions.Totals()
}
