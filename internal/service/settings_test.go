package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"controlling_motor/internal/logger"
	"controlling_motor/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestSettingsService_UpdateConfigPersists(t *testing.T) {
	e := newEnv(t)
	svc := NewSettingsService(e.ctrl, e.config, e.rec)

	cfg := svc.UpdateConfig(context.Background(), models.ConfigPatch{
		LimitCurrentA: ptr(12.5),
		SamplingHz:    ptr(1000),
	})
	if cfg.LimitCurrentA != 12.5 {
		t.Errorf("limit not applied: %v", cfg.LimitCurrentA)
	}
	if cfg.SamplingHz != models.MaxSamplingHz {
		t.Errorf("sampling rate should clamp to %d, got %d", models.MaxSamplingHz, cfg.SamplingHz)
	}
	if cfg.TempMotorC != models.DefaultDeviceConfig().TempMotorC {
		t.Errorf("unspecified field changed: %v", cfg.TempMotorC)
	}
	if got := e.config.kv["limit_current_a"]; got != "12.5" {
		t.Errorf("stored limit_current_a = %q", got)
	}
	if got := e.config.kv["sampling_hz"]; got != "200" {
		t.Errorf("stored sampling_hz = %q", got)
	}
	if svc.GetConfig() != cfg {
		t.Error("GetConfig should return the updated config")
	}
}

func TestSettingsService_StoreFailureRaisesEvent(t *testing.T) {
	e := newEnv(t)
	e.config.saveErr = errStore
	svc := NewSettingsService(e.ctrl, e.config, e.rec)

	cfg := svc.UpdateConfig(context.Background(), models.ConfigPatch{OvcMinMs: ptr(int64(80))})
	if cfg.OvcMinMs != 80 {
		t.Fatalf("update must apply even when the store fails, got %d", cfg.OvcMinMs)
	}
	st := e.ctrl.Status()
	if st.LastError != models.ErrCodeConfigWrite {
		t.Fatalf("expected last_error %d, got %d", models.ErrCodeConfigWrite, st.LastError)
	}
	if len(e.journal.events) != 1 || e.journal.events[0].Source != models.SourceStorage {
		t.Fatalf("expected journaled storage event, got %+v", e.journal.events)
	}
}

func TestSettingsService_Calibrate(t *testing.T) {
	e := newEnv(t)
	svc := NewSettingsService(e.ctrl, e.config, e.rec)
	ctx := context.Background()

	cal, err := svc.Calibrate(ctx, CalibrateRequest{Action: CalibrateCurrentZero})
	if err != nil {
		t.Fatalf("current_zero: %v", err)
	}
	if cal.ZeroMv != 2512 {
		t.Errorf("zero should capture rest voltage, got %v", cal.ZeroMv)
	}
	if e.config.kv["cal_zero_mv"] != "2512" {
		t.Errorf("stored cal_zero_mv = %q", e.config.kv["cal_zero_mv"])
	}

	cal, err = svc.Calibrate(ctx, CalibrateRequest{Action: CalibrateCurrentSensitivity, SensMvA: ptr(66.0), InputScale: ptr(-1.0)})
	if err != nil {
		t.Fatalf("current_sensitivity: %v", err)
	}
	if cal.SensMvA != 66 || cal.InputScale != 1 || cal.ZeroMv != 2512 {
		t.Errorf("unexpected calibration %+v", cal)
	}
	if svc.GetCalibration() != cal {
		t.Error("GetCalibration should return the updated calibration")
	}

	if _, err := svc.Calibrate(ctx, CalibrateRequest{Action: "offset"}); !errors.Is(err, ErrUnknownCalibration) {
		t.Fatalf("expected ErrUnknownCalibration, got %v", err)
	}
}

func TestParseConfigPatch(t *testing.T) {
	p, ignored := ParseConfigPatch(map[string]any{
		"limit_current_a": 15.0,
		"ovc_mode":        "auto",
		"ovc_min_ms":      "60",
		"latch_overtemp":  "false",
		"sampling_hz":     float64(25),
		"temp_motor_c":    nil,
		"unknown_key":     "whatever",
	})
	if len(ignored) != 0 {
		t.Fatalf("unexpected ignored keys: %v", ignored)
	}
	cfg := models.DefaultDeviceConfig().Apply(p)
	if cfg.LimitCurrentA != 15 || cfg.OvcMode != models.OvcAutoRetry || cfg.OvcMinMs != 60 ||
		cfg.LatchOvertemp || cfg.SamplingHz != 25 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if p.TempMotorC != nil || p.RunMaxS != nil {
		t.Error("absent keys must stay nil")
	}
}

func TestParseConfigPatch_SkipsBadFields(t *testing.T) {
	tests := []struct {
		in      map[string]any
		ignored []string
	}{
		{map[string]any{"limit_current_a": "lots"}, []string{"limit_current_a"}},
		{map[string]any{"ovc_mode": 7}, []string{"ovc_mode"}},
		{map[string]any{"ovc_mode": "sometimes"}, []string{"ovc_mode"}},
		{map[string]any{"latch_overtemp": "maybe"}, []string{"latch_overtemp"}},
		{map[string]any{"ovc_min_ms": "abc", "temp_hyst_c": "x", "limit_current_a": 12.0}, []string{"ovc_min_ms", "temp_hyst_c"}},
	}
	for _, tt := range tests {
		p, ignored := ParseConfigPatch(tt.in)
		if !reflect.DeepEqual(ignored, tt.ignored) {
			t.Errorf("%v: ignored %v, want %v", tt.in, ignored, tt.ignored)
		}
		for _, k := range tt.ignored {
			if got := EncodeConfig(models.DefaultDeviceConfig().Apply(p))[k]; got != EncodeConfig(models.DefaultDeviceConfig())[k] {
				t.Errorf("%v: bad key %s changed to %s", tt.in, k, got)
			}
		}
	}
}

func TestParseConfigPatch_AppliesValidFieldsAlongsideBadOnes(t *testing.T) {
	e := newEnv(t)
	svc := NewSettingsService(e.ctrl, e.config, e.rec)

	p, ignored := ParseConfigPatch(map[string]any{"limit_current_a": 12.0, "ovc_min_ms": "abc"})
	if len(ignored) != 1 || ignored[0] != "ovc_min_ms" {
		t.Fatalf("ignored = %v", ignored)
	}
	cfg := svc.UpdateConfig(context.Background(), p)
	if cfg.LimitCurrentA != 12 {
		t.Errorf("valid field dropped: %+v", cfg)
	}
	if cfg.OvcMinMs != models.DefaultDeviceConfig().OvcMinMs {
		t.Errorf("bad field applied: ovc_min_ms=%d", cfg.OvcMinMs)
	}
}

func TestParseCalibrateRequest(t *testing.T) {
	req, ignored := ParseCalibrateRequest(map[string]any{
		"action":      CalibrateCurrentSensitivity,
		"sens_mv_a":   66.0,
		"zero_mv":     "x",
		"input_scale": "0.5",
	})
	if !reflect.DeepEqual(ignored, []string{"zero_mv"}) {
		t.Fatalf("ignored = %v", ignored)
	}
	if req.Action != CalibrateCurrentSensitivity {
		t.Errorf("action = %q", req.Action)
	}
	if req.ZeroMv != nil {
		t.Error("unparseable zero_mv must stay nil")
	}
	if req.SensMvA == nil || *req.SensMvA != 66 || req.InputScale == nil || *req.InputScale != 0.5 {
		t.Errorf("valid values dropped: %+v", req)
	}

	req, ignored = ParseCalibrateRequest(map[string]any{"action": CalibrateCurrentZero, "input_scale": nil})
	if len(ignored) != 0 || req.InputScale != nil || req.Action != CalibrateCurrentZero {
		t.Errorf("unexpected %+v ignored=%v", req, ignored)
	}
}

func TestParseConfigPatch_NumericMode(t *testing.T) {
	p, ignored := ParseConfigPatch(map[string]any{"ovc_mode": float64(1)})
	if len(ignored) != 0 {
		t.Fatalf("unexpected ignored keys: %v", ignored)
	}
	if p.OvcMode == nil || *p.OvcMode != models.OvcAutoRetry {
		t.Fatalf("expected auto-retry mode, got %v", p.OvcMode)
	}
}

func TestRestoreSettings(t *testing.T) {
	want := models.DefaultDeviceConfig()
	want.LimitCurrentA = 9.5
	want.OvcMode = models.OvcAutoRetry
	want.LatchOvertemp = false
	want.SamplingHz = 10
	wantCal := models.Calibration{ZeroMv: 2490, SensMvA: 185, InputScale: 0.5}

	kv := EncodeConfig(want)
	for k, v := range EncodeCalibration(wantCal) {
		kv[k] = v
	}
	kv["temp_hyst_c"] = "warm"

	repo := &stubConfigRepo{kv: kv}
	cfg, cal, err := RestoreSettings(context.Background(), repo, models.DefaultDeviceConfig(), models.DefaultCalibration(), logger.Nop())
	if err != nil {
		t.Fatalf("RestoreSettings: %v", err)
	}
	if cfg != want {
		t.Errorf("config: got %+v, want %+v", cfg, want)
	}
	if cal != wantCal {
		t.Errorf("calibration: got %+v, want %+v", cal, wantCal)
	}
}

func TestRestoreSettings_LoadError(t *testing.T) {
	repo := &stubConfigRepo{loadErr: errStore}
	def := models.DefaultDeviceConfig()
	cfg, cal, err := RestoreSettings(context.Background(), repo, def, models.DefaultCalibration(), logger.Nop())
	if !errors.Is(err, errStore) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if cfg != def || cal != models.DefaultCalibration() {
		t.Fatal("defaults should be returned on load failure")
	}
}
