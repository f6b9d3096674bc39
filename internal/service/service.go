package service

import (
	"context"

	"controlling_motor/internal/bus"
	"controlling_motor/internal/controller"
	"controlling_motor/internal/logger"
	"controlling_motor/internal/models"
	"controlling_motor/internal/repository"
	"controlling_motor/internal/seqlog"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
	VerifyCredentials(ctx context.Context, username, password string) (int, error)
	EnsureUser(ctx context.Context, username, password string) (bool, error)
}

// Control is the command channel: actions, run timer, clock.
type Control interface {
	Command(ctx context.Context, action string) (models.Status, error)
	RunTimer(ctx context.Context, seconds int64) models.Status
	SetEpoch(ctx context.Context, seconds int64) (models.Status, error)
}

// Monitoring exposes read-only snapshots.
type Monitoring interface {
	GetStatus() models.Status
	Info() models.DeviceInfo
}

// Sync serves cursor queries over the sample and event logs.
type Sync interface {
	Samples(since uint64, max int) seqlog.Batch[models.Sample]
	Events(since uint64, max int) seqlog.Batch[models.Event]
}

type History interface {
	ListSessions() SessionHistory
}

// Settings reads and updates device configuration and calibration.
type Settings interface {
	GetConfig() models.DeviceConfig
	UpdateConfig(ctx context.Context, p models.ConfigPatch) models.DeviceConfig
	GetCalibration() models.Calibration
	Calibrate(ctx context.Context, req CalibrateRequest) (models.Calibration, error)
}

// Audit records rejected requests on the command channel.
type Audit interface {
	AuthFailure(ctx context.Context, reason AuthFailure)
}

// Runner drives the control loop until ctx is canceled.
type Runner interface {
	Run(ctx context.Context)
}

type Service struct {
	Authorization
	Control
	Monitoring
	Sync
	History
	Settings
	Audit
	Runner
}

// Deps are the collaborators NewService wires together. Journal and
// Publisher are optional.
type Deps struct {
	Repos      *repository.Repository
	Controller *controller.Controller
	Auth       AuthConfig
	Info       models.DeviceInfo
	Journal    Journal
	Publisher  Publisher
	Subjects   bus.Subjects
	Log        *logger.Logger
}

func NewService(d Deps) *Service {
	rec := NewRecorder(d.Controller, d.Repos.Sessions, d.Journal, d.Publisher, d.Subjects, d.Log)
	return &Service{
		Authorization: NewAuthService(d.Repos.Auth, d.Auth),
		Control:       NewControlService(d.Controller, rec),
		Monitoring:    NewMonitoringService(d.Controller, d.Info),
		Sync:          NewSyncService(d.Controller),
		History:       NewHistoryService(d.Controller),
		Settings:      NewSettingsService(d.Controller, d.Repos.Config, rec),
		Audit:         NewAuditService(d.Controller, rec),
		Runner:        NewRunnerService(d.Controller, rec, d.Log),
	}
}
