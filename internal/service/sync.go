package service

import (
	"controlling_motor/internal/controller"
	"controlling_motor/internal/models"
	"controlling_motor/internal/seqlog"
)

// Page size bounds for cursor queries.
const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

type SyncService struct {
	ctrl *controller.Controller
}

func NewSyncService(ctrl *controller.Controller) *SyncService {
	return &SyncService{ctrl: ctrl}
}

// ClampPageSize maps a requested page size into [1, MaxPageSize]. Callers
// substitute DefaultPageSize when the client sent no size at all.
func ClampPageSize(max int) int {
	switch {
	case max < 1:
		return 1
	case max > MaxPageSize:
		return MaxPageSize
	}
	return max
}

func (s *SyncService) Samples(since uint64, max int) seqlog.Batch[models.Sample] {
	return s.ctrl.Samples(since, ClampPageSize(max))
}

func (s *SyncService) Events(since uint64, max int) seqlog.Batch[models.Event] {
	return s.ctrl.Events(since, ClampPageSize(max))
}
