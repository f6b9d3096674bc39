package service

import (
	"context"

	"controlling_motor/internal/controller"
	"controlling_motor/internal/models"
)

type ControlService struct {
	ctrl *controller.Controller
	rec  *Recorder
}

func NewControlService(ctrl *controller.Controller, rec *Recorder) *ControlService {
	return &ControlService{ctrl: ctrl, rec: rec}
}

// Command applies a control action and returns the resulting status.
// Unknown actions fail with controller.ErrUnknownAction.
func (s *ControlService) Command(ctx context.Context, action string) (models.Status, error) {
	out, err := s.ctrl.Command(action)
	if err != nil {
		return models.Status{}, err
	}
	s.rec.Record(ctx, out)
	return s.ctrl.Status(), nil
}

// RunTimer energizes the load for seconds. Non-positive values are ignored.
func (s *ControlService) RunTimer(ctx context.Context, seconds int64) models.Status {
	s.rec.Record(ctx, s.ctrl.RunTimer(seconds))
	return s.ctrl.Status()
}

func (s *ControlService) SetEpoch(_ context.Context, seconds int64) (models.Status, error) {
	if err := s.ctrl.SetEpoch(seconds); err != nil {
		return models.Status{}, err
	}
	return s.ctrl.Status(), nil
}
