package service

import (
	"controlling_motor/internal/controller"
	"controlling_motor/internal/models"
)

// SessionHistory is the finalized session list with its totals.
type SessionHistory struct {
	Sessions []models.Session     `json:"sessions"`
	Totals   models.SessionTotals `json:"totals"`
}

type HistoryService struct {
	ctrl *controller.Controller
}

func NewHistoryService(ctrl *controller.Controller) *HistoryService {
	return &HistoryService{ctrl: ctrl}
}

func (s *HistoryService) ListSessions() SessionHistory {
	list := s.ctrl.Sessions()
	if list == nil {
		list = []models.Session{}
	}
	return SessionHistory{Sessions: list, Totals: s.ctrl.Totals()}
}
