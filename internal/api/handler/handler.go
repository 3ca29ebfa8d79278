package handler

import (
	"noticeboard/backend/internal/models"
	"noticeboard/backend/internal/realtime"
	"noticeboard/backend/internal/storage"
	"noticeboard/backend/internal/triage"

	"go.uber.org/zap"
)

// SubmissionNotifier is told about every stored anonymous submission.
type SubmissionNotifier interface {
	NotifySubmission(sub models.AnonymousSubmission) error
}

// Handler містить залежності HTTP API дошки
type Handler struct {
	Storage  storage.Storage
	Triage   *triage.Service
	Hub      *realtime.Hub
	Tokens   *TokenIssuer
	Notifier SubmissionNotifier

	// AllowVoteRevision lets a viewer move an existing vote to another option.
	AllowVoteRevision bool

	log *zap.Logger
}

func NewHandler(s storage.Storage, hub *realtime.Hub, tokens *TokenIssuer, notifier SubmissionNotifier, log *zap.Logger) *Handler {
	return &Handler{
		Storage:  s,
		Triage:   triage.NewService(s, log),
		Hub:      hub,
		Tokens:   tokens,
		Notifier: notifier,
		log:      log,
	}
}
