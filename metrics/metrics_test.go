package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveLogin(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAuthMetrics(reg)

	m.ObserveLogin(MethodTelegram, "success")
	m.ObserveLogin(MethodTelegram, "success")
	m.ObserveLogin(MethodPassword, "bad_credentials")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.loginAttempts.WithLabelValues(MethodTelegram, "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.loginAttempts.WithLabelValues(MethodPassword, "bad_credentials")))

	var nilMetrics *AuthMetrics
	assert.NotPanics(t, func() { nilMetrics.ObserveLogin(MethodRefresh, "success") })
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	NewAuthMetrics(reg).ObserveLogin(MethodRefresh, "bad_token")

	engine := gin.New()
	engine.GET("/metrics", Handler(reg))
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `identity_hub_login_attempts_total{method="refresh",outcome="bad_token"} 1`))
}
