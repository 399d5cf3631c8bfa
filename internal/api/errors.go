package api

import (
	"errors"   // Error classification
	"net/http" // HTTP status codes
	"strings"  // Message trimming

	"blood_bank/internal/domain" // Error taxonomy

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// classified maps each client-visible sentinel to its status code
var classified = []struct {
	err    error
	status int
}{
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrConflict, http.StatusBadRequest}, // Duplicate email is reported as 400
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrUnauthorized, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrNotFound, http.StatusNotFound},
}

// respondError writes the JSON error for err. Unclassified errors become a 500
// carrying only fallback; their detail goes to the log.
func respondError(c *gin.Context, err error, fallback string, fields logrus.Fields) {
	for _, k := range classified {
		if errors.Is(err, k.err) {
			c.JSON(k.status, gin.H{"error": clientMessage(err, k.err)})
			return
		}
	}
	if fields == nil {
		fields = logrus.Fields{}
	}
	fields["path"] = c.FullPath() // Route being accessed
	fields["error"] = err.Error() // Error message
	logrus.WithFields(fields).Error(fallback)
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}

// clientMessage strips the sentinel prefix, "validation error: missing
// required fields" becomes "missing required fields"
func clientMessage(err, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	if msg == "" {
		return sentinel.Error()
	}
	return msg
}
