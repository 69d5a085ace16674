package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/retention-api/pkg/auth"
	"github.com/jwalitptl/retention-api/pkg/httputil"
	"github.com/jwalitptl/retention-api/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r http.Handler, method, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	tokens := auth.NewJWTService("secret", "retention-api")
	mw := NewAuthMiddleware(tokens, "admin")

	r := gin.New()
	r.GET("/whoami", mw.Authenticate(), func(c *gin.Context) {
		c.String(http.StatusOK, Actor(c))
	})

	admin, err := tokens.GenerateToken("registrar", []string{"admin"}, time.Hour)
	require.NoError(t, err)
	viewer, err := tokens.GenerateToken("tutor", []string{"viewer"}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, ""},
		{"invalid token", "Bearer nope", http.StatusUnauthorized, ""},
		{"missing role", "Bearer " + viewer, http.StatusForbidden, ""},
		{"admin", "Bearer " + admin, http.StatusOK, "registrar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			rec := perform(r, http.MethodGet, "/whoami", nil, headers)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 2, TTL: time.Minute})

	r := gin.New()
	r.GET("/ping", rl.RateLimit(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, call("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, call("10.0.0.2"))
}

type ruleBody struct {
	DataType        string `json:"data_type" binding:"required"`
	RetentionMonths int    `json:"retention_months" binding:"required,gt=0"`
}

func TestValidation(t *testing.T) {
	r := gin.New()
	r.Use(Validation(DefaultValidationConfig()))
	r.POST("/rules", func(c *gin.Context) {
		var body ruleBody
		if err := c.ShouldBindJSON(&body); err != nil {
			_ = c.Error(err).SetType(gin.ErrorTypeBind)
			return
		}
		c.Status(http.StatusCreated)
	})

	rec := perform(r, http.MethodPost, "/rules", []byte(`{"retention_months": -1}`), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp httputil.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation failed", resp.Error.Message)
	assert.Contains(t, rec.Body.String(), `"field":"data_type"`)
	assert.Contains(t, rec.Body.String(), `"field":"retention_months"`)

	rec = perform(r, http.MethodPost, "/rules", []byte(`{not json`), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "malformed request")

	rec = perform(r, http.MethodPost, "/rules", []byte(`{"data_type":"RESOLVED_ALERTS","retention_months":12}`), nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestSizeLimit(t *testing.T) {
	r := gin.New()
	r.POST("/rules", SizeLimit(16), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := perform(r, http.MethodPost, "/rules", []byte(strings.Repeat("x", 32)), nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = perform(r, http.MethodPost, "/rules", []byte("{}"), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRecoveryAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	r := gin.New()
	r.Use(RequestID(), Logger(&log), Recovery(&log))
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	rec := perform(r, http.MethodGet, "/panic", nil, map[string]string{HeaderXRequestID: "req-42"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "req-42", rec.Header().Get(HeaderXRequestID))
	assert.Contains(t, buf.String(), "Request panic recovered")
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
	assert.Contains(t, buf.String(), `"status":500`)
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.NewMetrics("test")

	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/rules/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	perform(r, http.MethodGet, "/rules/7", nil, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `test_http_requests_total{method="GET",path="/rules/:id",status="200"} 1`)
}
