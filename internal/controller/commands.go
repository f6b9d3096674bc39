package controller

import (
	"fmt"

	"controlling_motor/internal/models"
	"controlling_motor/internal/protection"
)

// Control actions accepted by Command.
const (
	ActionStart      = "start"
	ActionStop       = "stop"
	ActionRelayOn    = "relay_on"
	ActionRelayOff   = "relay_off"
	ActionClearFault = "clear_fault"
)

// Command applies a control action between ticks. Unknown actions are
// rejected with ErrUnknownAction and change nothing.
func (c *Controller) Command(action string) (Output, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var res protection.Result
	switch action {
	case ActionStart:
		res = protection.Start(c.state, c.cfg)
	case ActionStop:
		res = protection.Stop(c.state)
	case ActionRelayOn:
		res = protection.RelayOn(c.state)
	case ActionRelayOff:
		res = protection.RelayOff(c.state)
	case ActionClearFault:
		res = protection.ClearFault(c.state)
	default:
		return Output{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	c.log.Infow("command", "action", action)
	return c.apply(res, c.clk.NowMs()), nil
}

// RunTimer energizes for seconds, replacing any pending timer.
func (c *Controller) RunTimer(seconds int64) Output {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clk.NowMs()
	c.log.Infow("run timer", "seconds", seconds)
	return c.apply(protection.RunTimer(c.state, seconds, c.cfg, now), now)
}

// SetEpoch accepts an external wall-clock value in seconds.
func (c *Controller) SetEpoch(sec int64) error {
	if sec <= 0 {
		return ErrInvalidEpoch
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clk.SetEpoch(sec)
	if c.lastWarning == models.WarnClockNotSet {
		c.lastWarning = 0
	}
	return nil
}

// Config returns the active configuration.
func (c *Controller) Config() models.DeviceConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

// UpdateConfig applies a partial update as one read-modify-write.
func (c *Controller) UpdateConfig(p models.ConfigPatch) models.DeviceConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = c.cfg.Apply(p)
	return c.cfg
}

// Calibration returns the active current-sensor calibration.
func (c *Controller) Calibration() models.Calibration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cal
}

// UpdateCalibration applies a partial calibration update.
func (c *Controller) UpdateCalibration(p models.CalibrationPatch) models.Calibration {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cal = c.cal.Apply(p)
	return c.cal
}

// CalibrateZero captures the unloaded sensor voltage as the zero point.
func (c *Controller) CalibrateZero() (models.Calibration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	z, ok := c.src.(zeroer)
	if !ok {
		return c.cal, ErrZeroUnsupported
	}
	c.cal.ZeroMv = z.RestMillivolts()
	return c.cal, nil
}
