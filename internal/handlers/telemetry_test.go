package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"controlling_motor/internal/models"
	"controlling_motor/internal/service"
)

func TestTelemetryHandlers_History(t *testing.T) {
	sync := &mockSync{samples: []models.Sample{{Seq: 1}, {Seq: 2}, {Seq: 3}}}
	r := newTestRouter(&service.Service{Sync: sync})

	w := doJSON(t, r, http.MethodGet, "/api/v1/history?since=1&max=1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("history status=%d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Samples []models.Sample `json:"samples"`
		SeqEnd  uint64          `json:"seq_end"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Samples) != 1 || resp.Samples[0].Seq != 2 || resp.SeqEnd != 2 {
		t.Fatalf("unexpected page: %+v", resp)
	}
	if sync.lastSince != 1 || sync.lastMax != 1 {
		t.Fatalf("query not forwarded: since=%d max=%d", sync.lastSince, sync.lastMax)
	}

	// defaults
	w = doJSON(t, r, http.MethodGet, "/api/v1/history", "", nil)
	if w.Code != http.StatusOK || sync.lastSince != 0 || sync.lastMax != service.DefaultPageSize {
		t.Fatalf("defaults: code=%d since=%d max=%d", w.Code, sync.lastSince, sync.lastMax)
	}

	// an explicit zero is passed through and clamped to one item
	w = doJSON(t, r, http.MethodGet, "/api/v1/history?max=0", "", nil)
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if w.Code != http.StatusOK || sync.lastMax != 0 || len(resp.Samples) != 1 || resp.SeqEnd != 1 {
		t.Fatalf("max=0: code=%d max=%d body=%s", w.Code, sync.lastMax, w.Body.String())
	}
}

func TestTelemetryHandlers_Events(t *testing.T) {
	sync := &mockSync{events: []models.Event{
		{Seq: 1, Level: models.LevelWarning, Code: models.WarnClockNotSet},
		{Seq: 2, Level: models.LevelError, Code: models.ErrCodeOvercurrent},
	}}
	r := newTestRouter(&service.Service{Sync: sync})

	w := doJSON(t, r, http.MethodGet, "/api/v1/events?since=2", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("events status=%d", w.Code)
	}
	var resp struct {
		Events []models.Event `json:"events"`
		SeqEnd uint64         `json:"seq_end"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Events == nil || len(resp.Events) != 0 || resp.SeqEnd != 2 {
		t.Fatalf("caught-up cursor should return an empty list and the same seq_end, got %s", w.Body.String())
	}
}

func TestTelemetryHandlers_BadCursor(t *testing.T) {
	r := newTestRouter(&service.Service{Sync: &mockSync{}})
	for _, path := range []string{
		"/api/v1/history?since=-1",
		"/api/v1/history?max=ten",
		"/api/v1/events?since=abc",
	} {
		if w := doJSON(t, r, http.MethodGet, path, "", nil); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, w.Code)
		}
	}
}

func TestTelemetryHandlers_Sessions(t *testing.T) {
	hist := &mockHistory{history: service.SessionHistory{
		Sessions: []models.Session{{ID: "s1", DurationS: 300, EnergyWh: 10, Success: true}},
		Totals:   models.SessionTotals{Sessions: 1, Successful: 1, TotalEnergyWh: 10},
	}}
	r := newTestRouter(&service.Service{History: hist})

	w := doJSON(t, r, http.MethodGet, "/api/v1/sessions", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("sessions status=%d", w.Code)
	}
	var got service.SessionHistory
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.Sessions) != 1 || got.Sessions[0].EnergyWh != 10 || got.Totals.Successful != 1 {
		t.Fatalf("unexpected sessions: %+v", got)
	}
}
