package handler

import (
	"errors"
	"net/http"

	"noticeboard/backend/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusOf maps domain errors to HTTP statuses; anything unknown is a 500.
func statusOf(err error) int {
	switch {
	case models.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotAPoll), errors.Is(err, models.ErrInvalidStatus), errors.Is(err, models.ErrAmbiguousID):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, models.ErrPostNotFound),
		errors.Is(err, models.ErrSubmissionNotFound),
		errors.Is(err, models.ErrProfileNotFound),
		errors.Is(err, models.ErrOptionNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrAlreadyVoted), errors.Is(err, models.ErrPollOptionsSet):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		h.log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(status, gin.H{"error": "internal error"})
		return
	}

	body := gin.H{"error": err.Error()}
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		body["error"] = ve.Message
		body["field"] = ve.Field
	}
	c.AbortWithStatusJSON(status, body)
}
