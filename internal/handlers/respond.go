package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"fieldcrew/internal/apperr"
	"fieldcrew/internal/db/models"

	"github.com/gin-gonic/gin"
)

// respondError maps the error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is an internal error and is logged, not leaked.
func respondError(c *gin.Context, err error) {
	if kind, ok := apperr.KindOf(err); ok {
		c.JSON(statusFor(kind), gin.H{"error": err.Error(), "kind": kind.String()})
		return
	}
	log.Printf("Internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindPreconditionFailed:
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": data})
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": param + " must be a positive integer"})
		return 0, false
	}
	return id, true
}

// parseDate reads a YYYY-MM-DD value in the site timezone, falling back
// to fallback when the value is empty.
func parseDate(value string, loc *time.Location, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	return time.ParseInLocation(models.DateFormat, value, loc)
}
