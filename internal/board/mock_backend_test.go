package board

import (
	"context"

	"noticeboard/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Viewer(ctx context.Context) (*models.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockBackend) FetchPosts(ctx context.Context) ([]models.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockBackend) FetchSubmissions(ctx context.Context) ([]models.AnonymousSubmission, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AnonymousSubmission), args.Error(1)
}

func (m *MockBackend) InsertPost(ctx context.Context, p models.NewPost) (*models.Post, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockBackend) InsertPollOptions(ctx context.Context, postID string, texts []string) error {
	return m.Called(ctx, postID, texts).Error(0)
}

func (m *MockBackend) CastVote(ctx context.Context, postID, optionID string) error {
	return m.Called(ctx, postID, optionID).Error(0)
}

func (m *MockBackend) Like(ctx context.Context, postID string) error {
	return m.Called(ctx, postID).Error(0)
}

func (m *MockBackend) Unlike(ctx context.Context, postID string) error {
	return m.Called(ctx, postID).Error(0)
}

func (m *MockBackend) InsertSubmission(ctx context.Context, s models.NewSubmission) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockBackend) UpdateSubmissionStatus(ctx context.Context, id string, status models.Status) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockBackend) Subscribe(ctx context.Context) (<-chan models.ChangeEvent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan models.ChangeEvent), args.Error(1)
}

func (m *MockBackend) SignOut(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
