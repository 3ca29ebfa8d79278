package board

import (
	"context"

	"noticeboard/backend/internal/models"
)

// Backend is the board's view of the backend service. Every method acts as the signed-in viewer.
type Backend interface {
	Viewer(ctx context.Context) (*models.Profile, error)
	FetchPosts(ctx context.Context) ([]models.Post, error)
	FetchSubmissions(ctx context.Context) ([]models.AnonymousSubmission, error)

	InsertPost(ctx context.Context, p models.NewPost) (*models.Post, error)
	InsertPollOptions(ctx context.Context, postID string, texts []string) error
	CastVote(ctx context.Context, postID, optionID string) error
	Like(ctx context.Context, postID string) error
	Unlike(ctx context.Context, postID string) error

	InsertSubmission(ctx context.Context, s models.NewSubmission) error
	UpdateSubmissionStatus(ctx context.Context, id string, status models.Status) error

	// Subscribe delivers change notifications until ctx is done; the channel is closed afterwards.
	Subscribe(ctx context.Context) (<-chan models.ChangeEvent, error)
	SignOut(ctx context.Context) error
}
