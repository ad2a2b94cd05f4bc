package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login methods.
const (
	MethodTelegram = "telegram"
	MethodPassword = "password"
	MethodRefresh  = "refresh"
)

// AuthMetrics counts authentication outcomes.
type AuthMetrics struct {
	loginAttempts *prometheus.CounterVec
}

// NewAuthMetrics registers the counters on reg.
func NewAuthMetrics(reg prometheus.Registerer) *AuthMetrics {
	m := &AuthMetrics{
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "identity_hub",
			Name:      "login_attempts_total",
			Help:      "Login attempts by method and outcome.",
		}, []string{"method", "outcome"}),
	}
	reg.MustRegister(m.loginAttempts)
	return m
}

// ObserveLogin counts one attempt. A nil receiver is a no-op.
func (m *AuthMetrics) ObserveLogin(method, outcome string) {
	if m == nil {
		return
	}
	m.loginAttempts.WithLabelValues(method, outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}
