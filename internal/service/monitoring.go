package service

import (
	"controlling_motor/internal/controller"
	"controlling_motor/internal/models"
)

type MonitoringService struct {
	ctrl *controller.Controller
	info models.DeviceInfo
}

func NewMonitoringService(ctrl *controller.Controller, info models.DeviceInfo) *MonitoringService {
	return &MonitoringService{ctrl: ctrl, info: info}
}

func (s *MonitoringService) GetStatus() models.Status {
	return s.ctrl.Status()
}

func (s *MonitoringService) Info() models.DeviceInfo {
	return s.info
}
