package handlers

import (
	"context"
	"net/http"
	"sync"

	"controlling_motor/internal/models"
	"controlling_motor/internal/seqlog"
	"controlling_motor/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error
	verifyID      int
	verifyErr     error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
	lastVerifyUsername string
	lastVerifyPassword string
	lastCtx            context.Context
}

func (m *mockAuth) SignUp(ctx context.Context, username, password string) (int, error) {
	m.lastCtx = ctx
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(ctx context.Context, username, password string) (string, error) {
	m.lastCtx = ctx
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}
func (m *mockAuth) VerifyCredentials(_ context.Context, username, password string) (int, error) {
	m.lastVerifyUsername = username
	m.lastVerifyPassword = password
	return m.verifyID, m.verifyErr
}
func (m *mockAuth) EnsureUser(context.Context, string, string) (bool, error) {
	return false, nil
}

type mockControl struct {
	status      models.Status
	commandErr  error
	epochErr    error
	lastAction  string
	lastSeconds int64
	lastEpoch   int64
	calls       int
}

func (m *mockControl) Command(_ context.Context, action string) (models.Status, error) {
	m.calls++
	m.lastAction = action
	if m.commandErr != nil {
		return models.Status{}, m.commandErr
	}
	return m.status, nil
}
func (m *mockControl) RunTimer(_ context.Context, seconds int64) models.Status {
	m.calls++
	m.lastSeconds = seconds
	return m.status
}
func (m *mockControl) SetEpoch(_ context.Context, seconds int64) (models.Status, error) {
	m.calls++
	m.lastEpoch = seconds
	if m.epochErr != nil {
		return models.Status{}, m.epochErr
	}
	st := m.status
	st.Epoch, st.RtcCalibrated = seconds, true
	return st, nil
}

type mockMonitoring struct {
	mu     sync.Mutex
	status models.Status
	info   models.DeviceInfo
}

func (m *mockMonitoring) GetStatus() models.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}
func (m *mockMonitoring) Info() models.DeviceInfo { return m.info }

// mockSync serves fixed slices through the same cursor rules as the logs.
type mockSync struct {
	mu      sync.Mutex
	samples []models.Sample
	events  []models.Event

	lastSince uint64
	lastMax   int
}

func (m *mockSync) Samples(since uint64, max int) seqlog.Batch[models.Sample] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSince, m.lastMax = since, max
	out := seqlog.Batch[models.Sample]{Items: []models.Sample{}, SeqEnd: since}
	for _, s := range m.samples {
		if s.Seq > since && len(out.Items) < service.ClampPageSize(max) {
			out.Items = append(out.Items, s)
			out.SeqEnd = s.Seq
		}
	}
	return out
}
func (m *mockSync) Events(since uint64, max int) seqlog.Batch[models.Event] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSince, m.lastMax = since, max
	out := seqlog.Batch[models.Event]{Items: []models.Event{}, SeqEnd: since}
	for _, e := range m.events {
		if e.Seq > since && len(out.Items) < service.ClampPageSize(max) {
			out.Items = append(out.Items, e)
			out.SeqEnd = e.Seq
		}
	}
	return out
}
func (m *mockSync) addEvent(e models.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

type mockHistory struct {
	history service.SessionHistory
}

func (m *mockHistory) ListSessions() service.SessionHistory { return m.history }

type mockSettings struct {
	cfg       models.DeviceConfig
	cal       models.Calibration
	calErr    error
	lastPatch models.ConfigPatch
	lastCal   service.CalibrateRequest
	updates   int
}

func (m *mockSettings) GetConfig() models.DeviceConfig { return m.cfg }
func (m *mockSettings) UpdateConfig(_ context.Context, p models.ConfigPatch) models.DeviceConfig {
	m.updates++
	m.lastPatch = p
	m.cfg = m.cfg.Apply(p)
	return m.cfg
}
func (m *mockSettings) GetCalibration() models.Calibration { return m.cal }
func (m *mockSettings) Calibrate(_ context.Context, req service.CalibrateRequest) (models.Calibration, error) {
	m.lastCal = req
	if m.calErr != nil {
		return models.Calibration{}, m.calErr
	}
	return m.cal, nil
}

type mockAudit struct {
	failures []service.AuthFailure
}

func (m *mockAudit) AuthFailure(_ context.Context, reason service.AuthFailure) {
	m.failures = append(m.failures, reason)
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
