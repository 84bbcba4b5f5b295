package server

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/playcredits/internal/domain"
	"github.com/osse101/playcredits/internal/leaderboard"
)

const testAPIKey = "test-key"

type stubPool struct{}

func (stubPool) Ping(ctx context.Context) error { return nil }
func (stubPool) Close()                         {}

// stubLeaderboard implements only what the routing tests reach
type stubLeaderboard struct {
	leaderboard.Service
	gotKind  domain.PeriodKind
	gotLimit int
}

func (s *stubLeaderboard) RequestLeaderboard(ctx context.Context, kind domain.PeriodKind, at *time.Time, limit int) (*domain.Leaderboard, error) {
	s.gotKind = kind
	s.gotLimit = limit
	return &domain.Leaderboard{
		Kind: kind,
		Entries: []domain.LeaderboardEntry{
			{Rank: 1, UserID: "amy", Credits: decimal.NewFromInt(1625)},
		},
	}, nil
}

func (s *stubLeaderboard) GetPlacements(ctx context.Context, periodID int64) ([]domain.Placement, error) {
	return nil, domain.ErrPeriodNotFound
}

func newTestRouter(lb leaderboard.Service) http.Handler {
	return NewServer(Options{Port: 0, APIKey: testAPIKey}, Services{
		DB:          stubPool{},
		Leaderboard: lb,
	}).Handler()
}

func do(h http.Handler, method, path string, withKey bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if withKey {
		req.Header.Set(HeaderAPIKey, testAPIKey)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicEndpoints(t *testing.T) {
	h := newTestRouter(&stubLeaderboard{})

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/healthz", false).Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/readyz", false).Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/version", false).Code)

	rec := do(h, http.MethodGet, "/metrics", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestRouter_APIRequiresKey(t *testing.T) {
	lb := &stubLeaderboard{}
	h := newTestRouter(lb)

	assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodGet, "/api/v1/leaderboard", false).Code)
	assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodPost, "/api/v1/admin/leaderboard/close", false).Code)
	assert.Empty(t, lb.gotKind)
}

func TestRouter_Leaderboard(t *testing.T) {
	lb := &stubLeaderboard{}
	h := newTestRouter(lb)

	rec := do(h, http.MethodGet, "/api/v1/leaderboard?kind=all_time&limit=5", true)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"user_id":"amy"`)
	assert.Equal(t, domain.PeriodAllTime, lb.gotKind)
	assert.Equal(t, 5, lb.gotLimit)
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestRouter_URLParamsReachHandlers(t *testing.T) {
	h := newTestRouter(&stubLeaderboard{})

	rec := do(h, http.MethodGet, "/api/v1/leaderboard/periods/77/placements", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(h, http.MethodGet, "/api/v1/leaderboard/periods/abc/placements", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_UnknownRoute(t *testing.T) {
	h := newTestRouter(&stubLeaderboard{})
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/api/v1/nope", true).Code)
}

func TestLoggingMiddleware_RedactsSecrets(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	h := loggingMiddleware(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/games", nil)
	req.Header.Set(HeaderAPIKey, "secret-key-123")
	req.Header.Set(HeaderAuthorization, "Bearer mytoken")
	req.Header.Set("User-Agent", "TestAgent")
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	require.Contains(t, out, LogMsgRequestHeaders)
	assert.NotContains(t, out, "secret-key-123")
	assert.NotContains(t, out, "Bearer mytoken")
	assert.Contains(t, out, "TestAgent")
	assert.Contains(t, out, RedactedValue)
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	h := loggingMiddleware(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/games", nil)
	req.Header.Set(HeaderRequestID, "upstream-id")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "upstream-id", rec.Header().Get(HeaderRequestID))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/games", nil))
	assert.Len(t, rec.Header().Get(HeaderRequestID), 36)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Empty(t, rec.Header().Get(HeaderRequestID))
}
