package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/retention-api/internal/config"
	auditHandler "github.com/jwalitptl/retention-api/internal/handler/audit"
	"github.com/jwalitptl/retention-api/internal/handler/health"
	"github.com/jwalitptl/retention-api/internal/middleware"
	"github.com/jwalitptl/retention-api/internal/repository/sqlstore"
	"github.com/jwalitptl/retention-api/internal/service/audit"
	"github.com/jwalitptl/retention-api/pkg/auth"
	"github.com/jwalitptl/retention-api/pkg/metrics"
)

func newTestRouter(t *testing.T, rl config.RateLimitConfig) (*Router, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlstore.NewDB(config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "router.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlstore.Migrate(context.Background(), db))

	tokens := auth.NewJWTService("secret", "retention-api")
	log := zerolog.Nop()
	auditSvc := audit.NewService(sqlstore.NewAuditRepository(sqlstore.NewBaseRepository(db)), nil)

	r := NewRouter(
		middleware.NewAuthMiddleware(tokens, "admin"),
		health.NewHandler(db),
		[]Handler{auditHandler.NewHandler(auditSvc)},
		metrics.NewMetrics("test"),
		&log,
		RouterConfig{RateLimit: rl},
	)
	r.Setup()
	return r, tokens
}

func get(r *Router, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.Engine().ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicAndProtectedRoutes(t *testing.T) {
	r, tokens := newTestRouter(t, config.RateLimitConfig{})

	rec := get(r, "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1.0", rec.Header().Get("X-API-Version"))
	assert.NotEmpty(t, rec.Header().Get(middleware.HeaderXRequestID))

	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/v1/audit-logs", "").Code)

	token, err := tokens.GenerateToken("registrar", []string{"admin"}, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, get(r, "/api/v1/audit-logs", token).Code)

	rec = get(r, "/api/v1/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test_http_requests_total{method="GET",path="/api/v1/health",status="200"} 1`)
}

func TestRouter_RateLimit(t *testing.T) {
	r, _ := newTestRouter(t, config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 1, ClientTTL: time.Minute})

	assert.Equal(t, http.StatusOK, get(r, "/api/v1/health/live", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "/api/v1/health/live", "").Code)
}
