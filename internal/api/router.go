package api

import (
	"blood_bank/internal/middleware" // Middleware
	"blood_bank/internal/service"    // Services

	"github.com/gin-gonic/gin"                                // Gin web framework
	"github.com/prometheus/client_golang/prometheus"          // Metrics registry
	"github.com/prometheus/client_golang/prometheus/promhttp" // Metrics endpoint
	"gorm.io/gorm"                                            // GORM ORM library
)

// RouterDeps carries everything the routes need
type RouterDeps struct {
	DB           *gorm.DB
	Auth         *service.AuthService
	Requests     *service.RequestService
	Appointments *service.AppointmentService
	Stats        *service.StatsService
	Limiter      *middleware.RateLimiter
	Registry     *prometheus.Registry
	SecureCookie bool     // Set Secure on the session cookie
	Proxies      []string // Trusted proxies, nil trusts none
}

// NewRouter wires middleware and routes
func NewRouter(d RouterDeps) (*gin.Engine, error) {
	r := gin.New()
	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies(d.Proxies); err != nil {
		return nil, err
	}
	metrics := middleware.NewMetrics(d.Registry)
	r.Use(gin.Recovery(), middleware.RequestLogger(), metrics.Instrument())

	r.GET("/healthz", HealthHandler(d.DB))                                                // Liveness and DB check
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))) // Prometheus scrape

	// Auth routes (rate limited per client IP)
	limit := middleware.RateLimit(d.Limiter)
	r.POST("/register", limit, RegisterHandler(d.Auth))           // Registration endpoint
	r.POST("/login", limit, LoginHandler(d.Auth, d.SecureCookie)) // Login endpoint
	r.POST("/logout", LogoutHandler(d.SecureCookie))              // Logout endpoint

	session := middleware.SessionMiddleware(d.Auth)

	// User routes (session required)
	r.POST("/requests", session, CreateRequestHandler(d.Requests, metrics)) // Create request endpoint
	r.GET("/requests", session, ListRequestsHandler(d.Requests))           // List own requests endpoint

	// Admin routes (session and isAdmin required)
	admin := r.Group("")
	admin.Use(session, middleware.AdminOnlyMiddleware())
	admin.GET("/appointments", ListAppointmentsHandler(d.Appointments))             // List appointments endpoint
	admin.PATCH("/appointments", UpdateAppointmentHandler(d.Appointments, metrics)) // Update appointment endpoint
	admin.GET("/stats", StatsHandler(d.Stats))                                      // Stats endpoint

	return r, nil
}
