package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"controlling_motor/internal/bus"
	"controlling_motor/internal/clock"
	"controlling_motor/internal/controller"
	"controlling_motor/internal/measure"
	"controlling_motor/internal/models"
)

type steadySource struct {
	raw  measure.Raw
	rest float64
}

func (s *steadySource) Next(measure.Input) measure.Raw { return s.raw }
func (s *steadySource) RestMillivolts() float64 { return s.rest }

type stubSessionRepo struct {
	mu       sync.Mutex
	appended []models.Session
	err      error
}

func (r *stubSessionRepo) Append(_ context.Context, s models.Session) (models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return models.Session{}, r.err
	}
	s.ID = "stored-" + string(rune('a'+len(r.appended)))
	r.appended = append(r.appended, s)
	return s, nil
}

func (r *stubSessionRepo) Recent(_ context.Context, limit int) ([]models.Session, error) {
	return r.appended, r.err
}

type stubConfigRepo struct {
	kv      map[string]string
	loadErr error
	saveErr error
	saves   int
}

func (r *stubConfigRepo) Load(context.Context) (map[string]string, error) {
	return r.kv, r.loadErr
}

func (r *stubConfigRepo) Save(_ context.Context, kv map[string]string) error {
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	if r.kv == nil {
		r.kv = map[string]string{}
	}
	for k, v := range kv {
		r.kv[k] = v
	}
	return nil
}

type memJournal struct {
	events   []models.Event
	sessions []models.Session
}

func (j *memJournal) WriteEvent(ev models.Event) error {
	j.events = append(j.events, ev)
	return nil
}

func (j *memJournal) WriteSession(s models.Session) error {
	j.sessions = append(j.sessions, s)
	return nil
}

type published struct {
	subject string
	payload any
}

type memPublisher struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (p *memPublisher) Publish(subject string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, published{subject, payload})
	return p.err
}

func (p *memPublisher) subjects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.msgs))
	for i, m := range p.msgs {
		out[i] = m.subject
	}
	return out
}

var errStore = errors.New("disk full")

type env struct {
	clk      *clock.Manual
	src      *steadySource
	ctrl     *controller.Controller
	sessions *stubSessionRepo
	config   *stubConfigRepo
	journal  *memJournal
	pub      *memPublisher
	rec      *Recorder
}

func newEnv(t *testing.T) *env {
	t.Helper()
	clk := clock.NewManual(1000)
	clk.SetEpoch(1_700_000_000)
	src := &steadySource{
		raw:  measure.Raw{CurrentA: 10, MotorC: 30, BoardC: 30, AmbientC: 28, PressurePa: 101325},
		rest: 2512,
	}
	e := &env{
		clk:      clk,
		src:      src,
		ctrl:     controller.New(controller.Options{Clock: clk, Source: src}),
		sessions: &stubSessionRepo{},
		config:   &stubConfigRepo{},
		journal:  &memJournal{},
		pub:      &memPublisher{},
	}
	e.rec = NewRecorder(e.ctrl, e.sessions, e.journal, e.pub, bus.NewSubjects("test"), nil)
	return e
}

// step advances the clock by ms and records the tick output.
func (e *env) step(ms int64) controller.Output {
	e.clk.Advance(ms)
	out := e.ctrl.Tick()
	e.rec.Record(context.Background(), out)
	return out
}
