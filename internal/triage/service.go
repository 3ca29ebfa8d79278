package triage

import (
	"context"
	"fmt"
	"time"

	"noticeboard/backend/internal/models"

	"go.uber.org/zap"
)

// Store is the part of storage the triage service works with.
type Store interface {
	ListSubmissions(ctx context.Context) ([]models.AnonymousSubmission, error)
	GetSubmission(ctx context.Context, id string) (*models.AnonymousSubmission, error)
	UpdateSubmissionStatus(ctx context.Context, id string, status models.Status, at time.Time) (*models.AnonymousSubmission, error)
}

// Console is the actor used by the admin CLI, which runs with operator rights.
var Console = &models.Profile{ID: "console", FullName: "Admin Console", IsAdmin: true}

// Service handles the business logic of submission triage.
// Every method checks the actor itself: hiding the admin tab is not enough.
type Service struct {
	Storage Store
	Now     func() time.Time
	log     *zap.Logger
}

// NewService creates a new triage service.
func NewService(s Store, log *zap.Logger) *Service {
	return &Service{Storage: s, Now: time.Now, log: log}
}

func authorize(actor *models.Profile) error {
	if actor == nil || !actor.IsAdmin {
		return models.ErrAccessDenied
	}
	return nil
}

// List returns all submissions in triage order.
func (s *Service) List(ctx context.Context, actor *models.Profile) ([]models.AnonymousSubmission, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	subs, err := s.Storage.ListSubmissions(ctx)
	if err != nil {
		return nil, err
	}
	return Sort(subs), nil
}

// Resolve turns a full submission ID or the short ID shown to admins into the full ID.
func (s *Service) Resolve(ctx context.Context, actor *models.Profile, id string) (string, error) {
	subs, err := s.List(ctx, actor)
	if err != nil {
		return "", err
	}
	var found []string
	for _, sub := range subs {
		if sub.ID == id {
			return sub.ID, nil
		}
		if ShortID(sub.ID) == id {
			found = append(found, sub.ID)
		}
	}
	switch len(found) {
	case 0:
		return "", models.ErrSubmissionNotFound
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("triage: %s matches %d submissions: %w", id, len(found), models.ErrAmbiguousID)
	}
}

// UpdateStatus sets the status of a submission. Non-admin actors get ErrAccessDenied and nothing is written.
func (s *Service) UpdateStatus(ctx context.Context, actor *models.Profile, id string, status models.Status) (*models.AnonymousSubmission, error) {
	if err := authorize(actor); err != nil {
		s.log.Warn("status update denied", zap.String("submission_id", id))
		return nil, err
	}
	if !status.Valid() {
		return nil, models.ErrInvalidStatus
	}

	sub, err := s.Storage.UpdateSubmissionStatus(ctx, id, status, s.Now().UTC())
	if err != nil {
		return nil, err
	}
	s.log.Info("submission status updated",
		zap.String("submission_id", id),
		zap.String("status", string(status)),
		zap.String("actor_id", actor.ID),
	)
	return sub, nil
}

// AdvanceStatus moves a submission one step along new -> reviewed -> resolved.
func (s *Service) AdvanceStatus(ctx context.Context, actor *models.Profile, id string) (*models.AnonymousSubmission, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	sub, err := s.Storage.GetSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	next, ok := Advance(sub.Status)
	if !ok {
		return nil, fmt.Errorf("triage: %s is %s: %w", ShortID(id), sub.Status, models.ErrInvalidStatus)
	}
	return s.UpdateStatus(ctx, actor, id, next.To)
}
