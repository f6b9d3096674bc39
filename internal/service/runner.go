package service

import (
	"context"
	"time"

	"controlling_motor/internal/controller"
	"controlling_motor/internal/logger"
)

// RunnerService ticks the controller at its sampling period.
type RunnerService struct {
	ctrl *controller.Controller
	rec  *Recorder
	log  *logger.Logger
}

func NewRunnerService(ctrl *controller.Controller, rec *Recorder, log *logger.Logger) *RunnerService {
	return &RunnerService{ctrl: ctrl, rec: rec, log: log.Component("runner")}
}

// Run ticks until ctx is canceled. The ticker follows sampling rate changes.
func (s *RunnerService) Run(ctx context.Context) {
	period := s.ctrl.Period()
	t := time.NewTicker(period)
	defer t.Stop()
	s.log.Infow("control loop started", "period", period)

	for {
		select {
		case <-ctx.Done():
			s.log.Infow("control loop stopped")
			return
		case <-t.C:
			if out := s.ctrl.Tick(); !out.Empty() {
				s.rec.Record(ctx, out)
			}
			if p := s.ctrl.Period(); p != period {
				s.log.Infow("sampling period changed", "from", period, "to", p)
				period = p
				t.Reset(period)
			}
		}
	}
}
