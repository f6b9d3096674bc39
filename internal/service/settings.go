package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cast"

	"controlling_motor/internal/controller"
	"controlling_motor/internal/logger"
	"controlling_motor/internal/models"
	"controlling_motor/internal/repository"
)

var ErrUnknownCalibration = errors.New("unknown calibration action")

// Key-value store keys for calibration. Config keys match the JSON names.
const (
	keyCalZeroMv     = "cal_zero_mv"
	keyCalSensMvA    = "cal_sens_mv_a"
	keyCalInputScale = "cal_input_scale"
)

type SettingsService struct {
	ctrl *controller.Controller
	repo repository.ConfigRepo
	rec  *Recorder
}

func NewSettingsService(ctrl *controller.Controller, repo repository.ConfigRepo, rec *Recorder) *SettingsService {
	return &SettingsService{ctrl: ctrl, repo: repo, rec: rec}
}

func (s *SettingsService) GetConfig() models.DeviceConfig {
	return s.ctrl.Config()
}

// UpdateConfig applies p and persists the result. A store failure does not
// undo the update; it is raised as a storage error event.
func (s *SettingsService) UpdateConfig(ctx context.Context, p models.ConfigPatch) models.DeviceConfig {
	cfg := s.ctrl.UpdateConfig(p)
	s.persist(ctx, EncodeConfig(cfg))
	return cfg
}

func (s *SettingsService) GetCalibration() models.Calibration {
	return s.ctrl.Calibration()
}

func (s *SettingsService) Calibrate(ctx context.Context, req CalibrateRequest) (models.Calibration, error) {
	var cal models.Calibration
	switch req.Action {
	case CalibrateCurrentZero:
		var err error
		if cal, err = s.ctrl.CalibrateZero(); err != nil {
			return cal, err
		}
	case CalibrateCurrentSensitivity:
		cal = s.ctrl.UpdateCalibration(models.CalibrationPatch{
			ZeroMv:     req.ZeroMv,
			SensMvA:    req.SensMvA,
			InputScale: req.InputScale,
		})
	default:
		return models.Calibration{}, fmt.Errorf("%w: %q", ErrUnknownCalibration, req.Action)
	}
	s.persist(ctx, EncodeCalibration(cal))
	return cal, nil
}

func (s *SettingsService) persist(ctx context.Context, kv map[string]string) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Save(ctx, kv); err != nil {
		s.rec.log.Errorw("persist settings", "error", err)
		s.rec.Record(ctx, s.ctrl.Raise(models.Error(models.ErrCodeConfigWrite, "config store write failed", models.SourceStorage)))
	}
}

// RestoreSettings overlays persisted values on the given defaults.
// Unparseable entries are skipped and logged.
func RestoreSettings(ctx context.Context, repo repository.ConfigRepo, cfg models.DeviceConfig, cal models.Calibration, log *logger.Logger) (models.DeviceConfig, models.Calibration, error) {
	kv, err := repo.Load(ctx)
	if err != nil {
		return cfg, cal, fmt.Errorf("load settings: %w", err)
	}

	raw := make(map[string]any, len(kv))
	for k, v := range kv {
		raw[k] = v
	}
	patch, bad := ParseConfigPatch(raw)
	log = log.Component("settings")
	for _, k := range bad {
		log.Warnw("skipping stored config value", "key", k, "value", kv[k])
	}

	var cp models.CalibrationPatch
	cp.ZeroMv = storedFloat(kv, keyCalZeroMv)
	cp.SensMvA = storedFloat(kv, keyCalSensMvA)
	cp.InputScale = storedFloat(kv, keyCalInputScale)

	return cfg.Apply(patch), cal.Apply(cp), nil
}

func storedFloat(kv map[string]string, key string) *float64 {
	v, ok := kv[key]
	if !ok {
		return nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil
	}
	return &f
}

// EncodeConfig flattens cfg into store keys.
func EncodeConfig(cfg models.DeviceConfig) map[string]string {
	return map[string]string{
		"limit_current_a": cast.ToString(cfg.LimitCurrentA),
		"ovc_mode":        cast.ToString(int(cfg.OvcMode)),
		"ovc_min_ms":      cast.ToString(cfg.OvcMinMs),
		"ovc_retry_ms":    cast.ToString(cfg.OvcRetryMs),
		"temp_motor_c":    cast.ToString(cfg.TempMotorC),
		"temp_board_c":    cast.ToString(cfg.TempBoardC),
		"temp_ambient_c":  cast.ToString(cfg.TempAmbientC),
		"temp_hyst_c":     cast.ToString(cfg.TempHystC),
		"latch_overtemp":  cast.ToString(cfg.LatchOvertemp),
		"motor_vcc_v":     cast.ToString(cfg.MotorVccV),
		"sampling_hz":     cast.ToString(cfg.SamplingHz),
		"buzzer_enabled":  cast.ToString(cfg.BuzzerEnabled),
		"run_max_s":       cast.ToString(cfg.RunMaxS),
	}
}

func EncodeCalibration(cal models.Calibration) map[string]string {
	return map[string]string{
		keyCalZeroMv:     cast.ToString(cal.ZeroMv),
		keyCalSensMvA:    cast.ToString(cal.SensMvA),
		keyCalInputScale: cast.ToString(cal.InputScale),
	}
}

// ParseConfigPatch builds a patch from loosely typed values such as a
// decoded JSON object. Unknown keys and nulls are skipped. A value that
// cannot be converted leaves its field unset and is returned in ignored,
// sorted; the remaining fields still apply.
func ParseConfigPatch(m map[string]any) (p models.ConfigPatch, ignored []string) {
	for k, v := range m {
		set, ok := configFields[k]
		if !ok || v == nil {
			continue
		}
		if err := set(&p, v); err != nil {
			ignored = append(ignored, k)
		}
	}
	sort.Strings(ignored)
	return p, ignored
}

// ParseCalibrateRequest is the lenient counterpart of binding a
// CalibrateRequest: a value that cannot be converted is dropped and
// reported instead of failing the request.
func ParseCalibrateRequest(m map[string]any) (req CalibrateRequest, ignored []string) {
	if v, ok := m["action"]; ok && v != nil {
		a, err := cast.ToStringE(v)
		if err != nil {
			ignored = append(ignored, "action")
		}
		req.Action = a
	}
	for k, dst := range map[string]**float64{
		"zero_mv":     &req.ZeroMv,
		"sens_mv_a":   &req.SensMvA,
		"input_scale": &req.InputScale,
	} {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		f, err := cast.ToFloat64E(v)
		if err != nil {
			ignored = append(ignored, k)
			continue
		}
		*dst = &f
	}
	sort.Strings(ignored)
	return req, ignored
}

type fieldSetter func(p *models.ConfigPatch, v any) error

var configFields = map[string]fieldSetter{
	"limit_current_a": floatField(func(p *models.ConfigPatch) **float64 { return &p.LimitCurrentA }),
	"ovc_mode":        setOvcMode,
	"ovc_min_ms":      int64Field(func(p *models.ConfigPatch) **int64 { return &p.OvcMinMs }),
	"ovc_retry_ms":    int64Field(func(p *models.ConfigPatch) **int64 { return &p.OvcRetryMs }),
	"temp_motor_c":    floatField(func(p *models.ConfigPatch) **float64 { return &p.TempMotorC }),
	"temp_board_c":    floatField(func(p *models.ConfigPatch) **float64 { return &p.TempBoardC }),
	"temp_ambient_c":  floatField(func(p *models.ConfigPatch) **float64 { return &p.TempAmbientC }),
	"temp_hyst_c":     floatField(func(p *models.ConfigPatch) **float64 { return &p.TempHystC }),
	"latch_overtemp":  boolField(func(p *models.ConfigPatch) **bool { return &p.LatchOvertemp }),
	"motor_vcc_v":     floatField(func(p *models.ConfigPatch) **float64 { return &p.MotorVccV }),
	"sampling_hz":     intField(func(p *models.ConfigPatch) **int { return &p.SamplingHz }),
	"buzzer_enabled":  boolField(func(p *models.ConfigPatch) **bool { return &p.BuzzerEnabled }),
	"run_max_s":       intField(func(p *models.ConfigPatch) **int { return &p.RunMaxS }),
}

func floatField(field func(*models.ConfigPatch) **float64) fieldSetter {
	return func(p *models.ConfigPatch, v any) error {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return err
		}
		*field(p) = &f
		return nil
	}
}

func int64Field(field func(*models.ConfigPatch) **int64) fieldSetter {
	return func(p *models.ConfigPatch, v any) error {
		n, err := cast.ToInt64E(v)
		if err != nil {
			return err
		}
		*field(p) = &n
		return nil
	}
}

func intField(field func(*models.ConfigPatch) **int) fieldSetter {
	return func(p *models.ConfigPatch, v any) error {
		n, err := cast.ToIntE(v)
		if err != nil {
			return err
		}
		*field(p) = &n
		return nil
	}
}

func boolField(field func(*models.ConfigPatch) **bool) fieldSetter {
	return func(p *models.ConfigPatch, v any) error {
		b, err := cast.ToBoolE(v)
		if err != nil {
			return err
		}
		*field(p) = &b
		return nil
	}
}

// setOvcMode accepts "latch", "auto" or the numeric mode.
func setOvcMode(p *models.ConfigPatch, v any) error {
	var mode models.OvcMode
	if s, ok := v.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "latch":
			mode = models.OvcLatch
			p.OvcMode = &mode
			return nil
		case "auto", "auto_retry":
			mode = models.OvcAutoRetry
			p.OvcMode = &mode
			return nil
		}
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return err
	}
	mode = models.OvcMode(n)
	if mode != models.OvcLatch && mode != models.OvcAutoRetry {
		return fmt.Errorf("ovc_mode %d out of range", n)
	}
	p.OvcMode = &mode
	return nil
}
