package api

import (
	"net/http" // HTTP status codes

	"blood_bank/internal/service" // Stats service

	"github.com/gin-gonic/gin" // Gin web framework
)

// StatsHandler returns the admin dashboard counters
func StatsHandler(stats *service.StatsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := stats.Compute(c.Request.Context())
		if err != nil {
			respondError(c, err, "Failed to fetch stats", nil)
			return
		}
		c.JSON(http.StatusOK, s)
	}
}
