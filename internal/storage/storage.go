package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"noticeboard/backend/internal/config"
	"noticeboard/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Storage is everything the board needs from the backend service.
type Storage interface {
	ListPosts(ctx context.Context, viewerID string) ([]models.Post, error)
	InsertPost(ctx context.Context, post *models.Post) error
	InsertPollOptions(ctx context.Context, postID, authorID string, texts []string) ([]models.PollOption, error)
	CastVote(ctx context.Context, postID, optionID, userID string, allowRevision bool) error
	Like(ctx context.Context, postID, userID string) error
	Unlike(ctx context.Context, postID, userID string) error

	InsertSubmission(ctx context.Context, sub *models.AnonymousSubmission) error
	ListSubmissions(ctx context.Context) ([]models.AnonymousSubmission, error)
	GetSubmission(ctx context.Context, id string) (*models.AnonymousSubmission, error)
	UpdateSubmissionStatus(ctx context.Context, id string, status models.Status, at time.Time) (*models.AnonymousSubmission, error)

	CreateProfile(ctx context.Context, p *models.Profile) error
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	SetAdmin(ctx context.Context, id string, isAdmin bool) error

	PublishChange(ctx context.Context, ev models.ChangeEvent) error
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	log   *zap.Logger
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client, log *zap.Logger) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		log:   log,
	}
}

// PublishChange публікує подію зміни в Redis Pub/Sub для всіх інстансів API
func (s *Service) PublishChange(ctx context.Context, ev models.ChangeEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := s.Redis.Publish(ctx, config.ChangesChannel, payload).Err(); err != nil {
		s.log.Error("failed to publish change", zap.String("table", ev.Table), zap.Error(err))
		return fmt.Errorf("storage: publish change: %w", err)
	}
	return nil
}

// SubscribeChanges підписується на канал змін. PubSub закриває викликач.
func (s *Service) SubscribeChanges(ctx context.Context) *redis.PubSub {
	return s.Redis.Subscribe(ctx, config.ChangesChannel)
}

// RevokeToken кладе jti у список відкликаних до закінчення терміну дії токена
func (s *Service) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.Redis.Set(ctx, config.RevokedTokenPrefix+jti, "1", ttl).Err()
}

// IsTokenRevoked перевіряє список відкликаних токенів у Redis
func (s *Service) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.Redis.Exists(ctx, config.RevokedTokenPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
