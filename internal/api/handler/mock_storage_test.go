package handler

import (
	"context"
	"time"

	"noticeboard/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a mock implementation of the storage.Storage interface.
type MockStorage struct {
	mock.Mock
}

// Post operations
func (m *MockStorage) ListPosts(ctx context.Context, viewerID string) ([]models.Post, error) {
	args := m.Called(ctx, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockStorage) InsertPost(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockStorage) InsertPollOptions(ctx context.Context, postID, authorID string, texts []string) ([]models.PollOption, error) {
	args := m.Called(ctx, postID, authorID, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PollOption), args.Error(1)
}

func (m *MockStorage) CastVote(ctx context.Context, postID, optionID, userID string, allowRevision bool) error {
	args := m.Called(ctx, postID, optionID, userID, allowRevision)
	return args.Error(0)
}

func (m *MockStorage) Like(ctx context.Context, postID, userID string) error {
	args := m.Called(ctx, postID, userID)
	return args.Error(0)
}

func (m *MockStorage) Unlike(ctx context.Context, postID, userID string) error {
	args := m.Called(ctx, postID, userID)
	return args.Error(0)
}

// Submission operations
func (m *MockStorage) InsertSubmission(ctx context.Context, sub *models.AnonymousSubmission) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockStorage) ListSubmissions(ctx context.Context) ([]models.AnonymousSubmission, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AnonymousSubmission), args.Error(1)
}

func (m *MockStorage) GetSubmission(ctx context.Context, id string) (*models.AnonymousSubmission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnonymousSubmission), args.Error(1)
}

func (m *MockStorage) UpdateSubmissionStatus(ctx context.Context, id string, status models.Status, at time.Time) (*models.AnonymousSubmission, error) {
	args := m.Called(ctx, id, status, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnonymousSubmission), args.Error(1)
}

// Profile operations
func (m *MockStorage) CreateProfile(ctx context.Context, p *models.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockStorage) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockStorage) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	args := m.Called(ctx, id, isAdmin)
	return args.Error(0)
}

// Redis operations
func (m *MockStorage) PublishChange(ctx context.Context, ev models.ChangeEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *MockStorage) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	args := m.Called(ctx, jti, ttl)
	return args.Error(0)
}

func (m *MockStorage) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifySubmission(sub models.AnonymousSubmission) error {
	args := m.Called(sub)
	return args.Error(0)
}
