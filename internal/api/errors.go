package api

import (
	"errors"   // Error inspection
	"fmt"      // Error wrapping
	"net/http" // HTTP status codes

	"lottery_service/internal/service" // Error kinds

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// errorStatusMap maps service error kinds to HTTP status codes. The kinds
// are disjoint, so iteration order does not matter.
var errorStatusMap = map[error]int{
	service.ErrNotFound:        http.StatusNotFound,
	service.ErrAlreadyExists:   http.StatusBadRequest,
	service.ErrInvalidInput:    http.StatusBadRequest,
	service.ErrInvalidState:    http.StatusBadRequest,
	service.ErrUnauthenticated: http.StatusUnauthorized,
	service.ErrForbidden:       http.StatusForbidden,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// respondError writes err as {"error": ...}. Unclassified errors are logged
// and hidden from the client.
func respondError(c *gin.Context, log logrus.FieldLogger, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("Request failed")
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// invalidInput wraps a request decoding failure as an invalid input error
func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", service.ErrInvalidInput, fmt.Sprintf(format, args...))
}
