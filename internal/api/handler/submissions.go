package handler

import (
	"net/http"
	"strings"

	"noticeboard/backend/internal/forms"
	"noticeboard/backend/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateSubmission приймає анонімне звернення. Жодних даних про відправника не зберігаємо і не логуємо.
func (h *Handler) CreateSubmission(c *gin.Context) {
	var req models.NewSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, &models.ValidationError{Field: "body", Message: err.Error()})
		return
	}
	if err := forms.ValidateSubmission(req); err != nil {
		h.respondError(c, err)
		return
	}

	sub := &models.AnonymousSubmission{
		Category: req.Category,
		Content:  strings.TrimSpace(req.Content),
		Urgency:  req.Urgency,
	}
	if err := h.Storage.InsertSubmission(c.Request.Context(), sub); err != nil {
		h.respondError(c, err)
		return
	}

	if h.Notifier != nil {
		if err := h.Notifier.NotifySubmission(*sub); err != nil {
			h.log.Warn("submission alert failed", zap.String("submission_id", sub.ID), zap.Error(err))
		}
	}

	c.JSON(http.StatusCreated, gin.H{"id": sub.ID, "status": sub.Status})
}

func (h *Handler) ListSubmissions(c *gin.Context) {
	subs, err := h.Triage.List(c.Request.Context(), currentViewer(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if subs == nil {
		subs = []models.AnonymousSubmission{}
	}
	c.JSON(http.StatusOK, subs)
}

type statusRequest struct {
	Status models.Status `json:"status"`
}

func (h *Handler) UpdateSubmission(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, &models.ValidationError{Field: "status", Message: err.Error()})
		return
	}
	sub, err := h.Triage.UpdateStatus(c.Request.Context(), currentViewer(c), c.Param("id"), req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}
