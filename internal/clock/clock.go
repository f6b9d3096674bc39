// Package clock supplies monotonic tick time and a settable wall-clock epoch.
package clock

import (
	"sync"
	"time"
)

// Clock is the time source for the controller. NowMs is monotonic and
// starts near zero; EpochSec is wall-clock seconds.
type Clock interface {
	NowMs() int64
	EpochSec() int64
	SetEpoch(sec int64)
	Calibrated() bool
}

// System is backed by the process monotonic clock. The epoch starts from
// the host wall clock but is reported as uncalibrated until SetEpoch.
type System struct {
	mu         sync.RWMutex
	start      time.Time
	base       int64
	baseAtMs   int64
	calibrated bool
}

// NewSystem starts the monotonic counter at zero.
func NewSystem() *System {
	now := time.Now()
	return &System{start: now, base: now.Unix()}
}

func (s *System) NowMs() int64 {
	return time.Since(s.start).Milliseconds()
}

func (s *System) EpochSec() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base + (s.NowMs()-s.baseAtMs)/1000
}

func (s *System) SetEpoch(sec int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = sec
	s.baseAtMs = s.NowMs()
	s.calibrated = true
}

func (s *System) Calibrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calibrated
}

// Manual is a hand-driven clock for tests and replays.
type Manual struct {
	mu         sync.Mutex
	ms         int64
	base       int64
	baseAtMs   int64
	calibrated bool
}

// NewManual returns a clock at tick 0 with the given epoch.
func NewManual(epoch int64) *Manual {
	return &Manual{base: epoch}
}

// Advance moves the monotonic time forward by ms.
func (m *Manual) Advance(ms int64) {
	m.mu.Lock()
	m.ms += ms
	m.mu.Unlock()
}

func (m *Manual) NowMs() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ms
}

func (m *Manual) EpochSec() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.base + (m.ms-m.baseAtMs)/1000
}

func (m *Manual) SetEpoch(sec int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.base = sec
	m.baseAtMs = m.ms
	m.calibrated = true
}

func (m *Manual) Calibrated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calibrated
}

var (
	_ Clock = (*System)(nil)
	_ Clock = (*Manual)(nil)
)
