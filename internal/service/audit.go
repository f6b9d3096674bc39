package service

import (
	"context"

	"controlling_motor/internal/controller"
	"controlling_motor/internal/models"
)

// AuthFailure says why a command request was refused.
type AuthFailure int

const (
	CredentialsMissing AuthFailure = iota
	CredentialsInvalid
)

type AuditService struct {
	ctrl *controller.Controller
	rec  *Recorder
}

func NewAuditService(ctrl *controller.Controller, rec *Recorder) *AuditService {
	return &AuditService{ctrl: ctrl, rec: rec}
}

func (s *AuditService) AuthFailure(ctx context.Context, reason AuthFailure) {
	ev := models.Warning(models.WarnAuthMissing, "credentials missing", models.SourceAuth)
	if reason == CredentialsInvalid {
		ev = models.Warning(models.WarnAuthInvalid, "credentials invalid", models.SourceAuth)
	}
	s.rec.Record(ctx, s.ctrl.Raise(ev))
}
