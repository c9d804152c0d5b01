package handlers

import (
	"context"
	"net/http"
	"time"

	"roastwatch"
	"roastwatch/internal/engine"
	"roastwatch/internal/service"

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

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockSessions struct {
	session  roastwatch.CookSession
	sessions []roastwatch.CookSession
	readings []roastwatch.Reading
	reading  roastwatch.Reading
	events   []roastwatch.OvenEvent
	event    roastwatch.OvenEvent
	err      error

	lastUserID        int
	lastSessionID     string
	lastReadingID     string
	lastEventID       string
	lastSessionParams service.SessionParams
	lastReadingParams service.ReadingParams
	lastEventParams   service.OvenEventParams
}

func (m *mockSessions) Create(ctx context.Context, userID int, p service.SessionParams) (roastwatch.CookSession, error) {
	m.lastUserID = userID
	m.lastSessionParams = p
	return m.session, m.err
}
func (m *mockSessions) Get(ctx context.Context, userID int, sessionID string) (roastwatch.CookSession, error) {
	m.lastUserID = userID
	m.lastSessionID = sessionID
	return m.session, m.err
}
func (m *mockSessions) List(ctx context.Context, userID int) ([]roastwatch.CookSession, error) {
	m.lastUserID = userID
	return m.sessions, m.err
}
func (m *mockSessions) Update(ctx context.Context, userID int, sessionID string, p service.SessionParams) (roastwatch.CookSession, error) {
	m.lastUserID = userID
	m.lastSessionID = sessionID
	m.lastSessionParams = p
	return m.session, m.err
}
func (m *mockSessions) Readings(ctx context.Context, userID int, sessionID string) ([]roastwatch.Reading, error) {
	m.lastUserID = userID
	m.lastSessionID = sessionID
	return m.readings, m.err
}
func (m *mockSessions) AddReading(ctx context.Context, userID int, sessionID string, p service.ReadingParams) (roastwatch.Reading, error) {
	m.lastUserID = userID
	m.lastSessionID = sessionID
	m.lastReadingParams = p
	return m.reading, m.err
}
func (m *mockSessions) UpdateReading(ctx context.Context, userID int, sessionID, readingID string, p service.ReadingParams) error {
	m.lastUserID = userID
	m.lastSessionID = sessionID
	m.lastReadingID = readingID
	m.lastReadingParams = p
	return m.err
}
func (m *mockSessions) DeleteReading(ctx context.Context, userID int, sessionID, readingID string) error {
	m.lastUserID = userID
	m.lastSessionID = sessionID
	m.lastReadingID = readingID
	return m.err
}
func (m *mockSessions) OvenEvents(ctx context.Context, userID int, sessionID string) ([]roastwatch.OvenEvent, error) {
	m.lastUserID = userID
	m.lastSessionID = sessionID
	return m.events, m.err
}
func (m *mockSessions) AddOvenEvent(ctx context.Context, userID int, sessionID string, p service.OvenEventParams) (roastwatch.OvenEvent, error) {
	m.lastUserID = userID
	m.lastSessionID = sessionID
	m.lastEventParams = p
	return m.event, m.err
}
func (m *mockSessions) DeleteOvenEvent(ctx context.Context, userID int, sessionID, eventID string) error {
	m.lastUserID = userID
	m.lastSessionID = sessionID
	m.lastEventID = eventID
	return m.err
}

type mockCalculations struct {
	result    engine.Result
	analysis  *engine.ResponsivenessAnalysis
	event     roastwatch.OvenEvent
	err       error
	applyErr  error
	lastUser  int
	lastSessn string
	lastNow   time.Time
}

func (m *mockCalculations) ForSession(ctx context.Context, userID int, sessionID string, now time.Time) (engine.Result, error) {
	m.lastUser = userID
	m.lastSessn = sessionID
	m.lastNow = now
	return m.result, m.err
}
func (m *mockCalculations) Responsiveness(ctx context.Context, userID int, sessionID string, now time.Time) (*engine.ResponsivenessAnalysis, error) {
	m.lastUser = userID
	m.lastSessn = sessionID
	m.lastNow = now
	return m.analysis, m.err
}
func (m *mockCalculations) ApplyRecommendation(ctx context.Context, userID int, sessionID string, now time.Time) (roastwatch.OvenEvent, error) {
	m.lastUser = userID
	m.lastSessn = sessionID
	m.lastNow = now
	return m.event, m.applyErr
}

type mockActivity struct {
	resp       []roastwatch.ActivityEntry
	err        error
	lastFilter service.ActivityFilter
	lastSessn  string
}

func (m *mockActivity) List(ctx context.Context, userID int, sessionID string, f service.ActivityFilter) ([]roastwatch.ActivityEntry, error) {
	m.lastSessn = sessionID
	m.lastFilter = f
	return m.resp, m.err
}

type mockMonitor struct{}

func (m *mockMonitor) Run(ctx context.Context, tick time.Duration) {}

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
