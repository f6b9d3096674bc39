package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"controlling_motor/internal/controller"
	"controlling_motor/internal/models"
	"controlling_motor/internal/service"
)

func TestSettingsHandlers_Config(t *testing.T) {
	set := &mockSettings{cfg: models.DefaultDeviceConfig()}
	audit := &mockAudit{}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Settings: set, Audit: audit})

	w := doJSON(t, r, http.MethodGet, "/api/v1/config", "", nil)
	var cfg models.DeviceConfig
	_ = json.Unmarshal(w.Body.Bytes(), &cfg)
	if w.Code != http.StatusOK || cfg != models.DefaultDeviceConfig() {
		t.Fatalf("get config code=%d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/config", `{"limit_current_a":12}`, nil)
	if w.Code != http.StatusUnauthorized || set.updates != 0 {
		t.Fatalf("unauthenticated update: code=%d updates=%d", w.Code, set.updates)
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/config",
		`{"limit_current_a":12,"ovc_mode":"auto","sampling_hz":"500","extra":true}`, authHeader("valid"))
	if w.Code != http.StatusOK {
		t.Fatalf("post config status=%d body=%s", w.Code, w.Body.String())
	}
	_ = json.Unmarshal(w.Body.Bytes(), &cfg)
	if cfg.LimitCurrentA != 12 || cfg.OvcMode != models.OvcAutoRetry || cfg.SamplingHz != models.MaxSamplingHz {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if set.lastPatch.TempMotorC != nil {
		t.Fatal("omitted fields must stay unset in the patch")
	}

	if strings.Contains(w.Body.String(), `"ignored"`) {
		t.Fatalf("clean update should not list ignored keys: %s", w.Body.String())
	}
}

func TestSettingsHandlers_ConfigSkipsBadFields(t *testing.T) {
	set := &mockSettings{cfg: models.DefaultDeviceConfig()}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Settings: set})

	w := doJSON(t, r, http.MethodPost, "/api/v1/config", `{"limit_current_a":12,"ovc_min_ms":"abc"}`, authHeader("valid"))
	if w.Code != http.StatusOK || set.updates != 1 {
		t.Fatalf("code=%d updates=%d body=%s", w.Code, set.updates, w.Body.String())
	}
	var resp service.ConfigUpdate
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.LimitCurrentA != 12 || resp.OvcMinMs != models.DefaultDeviceConfig().OvcMinMs {
		t.Fatalf("unexpected config: %+v", resp.DeviceConfig)
	}
	if len(resp.Ignored) != 1 || resp.Ignored[0] != "ovc_min_ms" {
		t.Fatalf("ignored = %v", resp.Ignored)
	}
	if set.lastPatch.OvcMinMs != nil {
		t.Fatal("unparseable field reached the patch")
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/config", `[1,2]`, authHeader("valid"))
	if w.Code != http.StatusBadRequest || !strings.HasPrefix(errorMessage(t, w.Body.Bytes()), errInvalidBodyPref) {
		t.Fatalf("non-object body: code=%d body=%s", w.Code, w.Body.String())
	}
}

func TestSettingsHandlers_Calibrate(t *testing.T) {
	set := &mockSettings{cal: models.Calibration{ZeroMv: 2510, SensMvA: 100, InputScale: 1}}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Settings: set})

	w := doJSON(t, r, http.MethodGet, "/api/v1/calibration", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get calibration status=%d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/calibrate", `{"action":"current_sensitivity","sens_mv_a":66}`, authHeader("valid"))
	if w.Code != http.StatusOK {
		t.Fatalf("calibrate status=%d body=%s", w.Code, w.Body.String())
	}
	if set.lastCal.Action != service.CalibrateCurrentSensitivity || set.lastCal.SensMvA == nil || *set.lastCal.SensMvA != 66 {
		t.Fatalf("request not forwarded: %+v", set.lastCal)
	}
	if set.lastCal.ZeroMv != nil {
		t.Fatal("absent zero_mv should stay nil")
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/calibrate", `{"action":"current_sensitivity","sens_mv_a":66,"zero_mv":"x"}`, authHeader("valid"))
	if w.Code != http.StatusOK {
		t.Fatalf("lenient calibrate status=%d body=%s", w.Code, w.Body.String())
	}
	var resp service.CalibrationUpdate
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Ignored) != 1 || resp.Ignored[0] != "zero_mv" || resp.SensMvA != 100 {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}
	if set.lastCal.ZeroMv != nil || set.lastCal.SensMvA == nil || *set.lastCal.SensMvA != 66 {
		t.Fatalf("request not filtered: %+v", set.lastCal)
	}

	for _, err := range []error{service.ErrUnknownCalibration, controller.ErrZeroUnsupported} {
		set.calErr = err
		w = doJSON(t, r, http.MethodPost, "/api/v1/calibrate", `{"action":"current_zero"}`, authHeader("valid"))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%v: expected 400, got %d", err, w.Code)
		}
	}
}
