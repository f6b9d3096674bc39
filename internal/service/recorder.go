package service

import (
	"context"

	"controlling_motor/internal/bus"
	"controlling_motor/internal/controller"
	"controlling_motor/internal/logger"
	"controlling_motor/internal/models"
	"controlling_motor/internal/repository"
)

// Journal is the local append-only record of controller output.
type Journal interface {
	WriteEvent(ev models.Event) error
	WriteSession(s models.Session) error
}

// Publisher fans controller output out to other services.
type Publisher interface {
	Publish(subject string, payload any) error
}

// Recorder hands tick and command output to storage, the journal and the
// bus. It runs outside the controller lock.
type Recorder struct {
	ctrl     *controller.Controller
	sessions repository.SessionRepo
	journal  Journal
	pub      Publisher
	subjects bus.Subjects
	log      *logger.Logger
}

func NewRecorder(ctrl *controller.Controller, sessions repository.SessionRepo, j Journal, pub Publisher, subjects bus.Subjects, log *logger.Logger) *Recorder {
	if subjects == (bus.Subjects{}) {
		subjects = bus.NewSubjects("")
	}
	return &Recorder{
		ctrl:     ctrl,
		sessions: sessions,
		journal:  j,
		pub:      pub,
		subjects: subjects,
		log:      log.Component("recorder"),
	}
}

// Record persists finalized sessions and forwards every new event. A
// failed session write is raised as a storage error event.
func (r *Recorder) Record(ctx context.Context, out controller.Output) {
	events := out.Events
	for _, s := range out.Sessions {
		stored, err := r.persist(ctx, s)
		if err != nil {
			r.log.Errorw("persist session", "error", err)
			raised := r.ctrl.Raise(models.Error(models.ErrCodeSessionWrite, "session store write failed", models.SourceStorage))
			events = append(events, raised.Events...)
		}
		r.forwardSession(stored)
	}
	for _, ev := range events {
		r.forwardEvent(ev)
	}
}

func (r *Recorder) persist(ctx context.Context, s models.Session) (models.Session, error) {
	if r.sessions == nil {
		return s, nil
	}
	stored, err := r.sessions.Append(ctx, s)
	if err != nil {
		return s, err
	}
	return stored, nil
}

func (r *Recorder) forwardSession(s models.Session) {
	if r.journal != nil {
		if err := r.journal.WriteSession(s); err != nil {
			r.log.Warnw("journal session", "error", err)
		}
	}
	if r.pub != nil {
		if err := r.pub.Publish(r.subjects.Sessions, s); err != nil {
			r.log.Warnw("publish session", "subject", r.subjects.Sessions, "error", err)
		}
	}
}

func (r *Recorder) forwardEvent(ev models.Event) {
	if r.journal != nil {
		if err := r.journal.WriteEvent(ev); err != nil {
			r.log.Warnw("journal event", "seq", ev.Seq, "error", err)
		}
	}
	if r.pub != nil {
		if err := r.pub.Publish(r.subjects.Events, ev); err != nil {
			r.log.Warnw("publish event", "subject", r.subjects.Events, "error", err)
		}
	}
}
