package service

import (
	"testing"

	"controlling_motor/internal/models"
)

func TestAuditService_AuthFailure(t *testing.T) {
	tests := []struct {
		name     string
		reason   AuthFailure
		wantCode int
	}{
		{"missing credentials", CredentialsMissing, models.WarnAuthMissing},
		{"invalid credentials", CredentialsInvalid, models.WarnAuthInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			NewAuditService(e.ctrl, e.rec).AuthFailure(t.Context(), tt.reason)

			st := e.ctrl.Status()
			if st.LastWarning != tt.wantCode {
				t.Fatalf("expected last_warning %d, got %d", tt.wantCode, st.LastWarning)
			}
			if st.Device.DesiredOn || st.Device.RelayOn {
				t.Fatal("auth failure must not change device state")
			}
			if len(e.journal.events) != 1 || e.journal.events[0].Source != models.SourceAuth {
				t.Fatalf("expected one journaled auth event, got %+v", e.journal.events)
			}
		})
	}
}
