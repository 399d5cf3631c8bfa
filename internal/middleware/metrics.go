package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the HTTP and domain collectors.
type Metrics struct {
	requests        *prometheus.CounterVec
	latency         *prometheus.HistogramVec
	RequestsCreated *prometheus.CounterVec
	StatusUpdates   *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blood_bank_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "blood_bank_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		RequestsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blood_bank_requests_created_total",
			Help: "Donation and receiving requests created, by type.",
		}, []string{"type"}),
		StatusUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blood_bank_appointment_status_updates_total",
			Help: "Appointment status updates, by new status.",
		}, []string{"status"}),
	}
	reg.MustRegister(m.requests, m.latency, m.RequestsCreated, m.StatusUpdates)
	return m
}

// Instrument records count and latency for every request.
func (m *Metrics) Instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.latency.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
