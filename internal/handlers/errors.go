package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rm-hull/face-blur-scale/internal/raster"
	"github.com/sirupsen/logrus"
)

// requestError marks a malformed request: bad query values or a body that is
// not an image.
type requestError struct {
	err error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func badRequest(format string, args ...any) error {
	return &requestError{err: fmt.Errorf(format, args...)}
}

func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	var reqErr *requestError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &reqErr):
		return http.StatusBadRequest
	case errors.Is(err, raster.ErrPrecondition):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) fail(c *gin.Context, operation string, err error) {
	status := statusFor(err)
	entry := h.logger.WithFields(logrus.Fields{
		"operation": operation,
		"status":    status,
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
