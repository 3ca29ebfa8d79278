package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"noticeboard/backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListPosts повертає стрічку від нових до старих разом з автором, варіантами опитування
// та станом голосу/лайка конкретного глядача.
func (s *Service) ListPosts(ctx context.Context, viewerID string) ([]models.Post, error) {
	var posts []models.Post
	err := s.DB.WithContext(ctx).
		Preload("Author").
		Preload("PollOptions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc")
		}).
		Order("created_at desc").
		Find(&posts).Error
	if err != nil {
		s.log.Error("failed to list posts", zap.Error(err))
		return nil, fmt.Errorf("storage: list posts: %w", err)
	}
	if viewerID == "" || len(posts) == 0 {
		return posts, nil
	}

	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	var votes []models.PollVote
	if err := s.DB.WithContext(ctx).
		Where("user_id = ? AND post_id IN ?", viewerID, ids).
		Find(&votes).Error; err != nil {
		return nil, fmt.Errorf("storage: list votes: %w", err)
	}
	var likes []models.PostLike
	if err := s.DB.WithContext(ctx).
		Where("user_id = ? AND post_id IN ?", viewerID, ids).
		Find(&likes).Error; err != nil {
		return nil, fmt.Errorf("storage: list likes: %w", err)
	}

	voteByPost := make(map[string]models.PollVote, len(votes))
	for _, v := range votes {
		voteByPost[v.PostID] = v
	}
	liked := make(map[string]bool, len(likes))
	for _, l := range likes {
		liked[l.PostID] = true
	}
	for i := range posts {
		if v, ok := voteByPost[posts[i].ID]; ok {
			posts[i].UserVote = &v
		}
		posts[i].UserLiked = liked[posts[i].ID]
	}
	return posts, nil
}

// InsertPost зберігає пост; ID заповнюється хуком BeforeCreate
func (s *Service) InsertPost(ctx context.Context, post *models.Post) error {
	if err := s.DB.WithContext(ctx).Create(post).Error; err != nil {
		s.log.Error("failed to insert post", zap.String("author_id", post.AuthorID), zap.Error(err))
		return fmt.Errorf("storage: insert post: %w", err)
	}
	return nil
}

// InsertPollOptions додає варіанти до щойно створеного опитування.
// Додати їх може лише автор, і лише один раз.
func (s *Service) InsertPollOptions(ctx context.Context, postID, authorID string, texts []string) ([]models.PollOption, error) {
	var options []models.PollOption
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Where("id = ?", postID).Take(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrPostNotFound
			}
			return err
		}
		if post.AuthorID != authorID {
			return models.ErrAccessDenied
		}
		if post.Type != models.PostPoll {
			return models.ErrNotAPoll
		}

		var existing int64
		if err := tx.Model(&models.PollOption{}).Where("post_id = ?", postID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return models.ErrPollOptionsSet
		}

		// Порядок варіантів визначається created_at, тому рознесемо мітки часу
		now := time.Now()
		options = make([]models.PollOption, 0, len(texts))
		for i, text := range texts {
			options = append(options, models.PollOption{
				PostID:     postID,
				OptionText: text,
				CreatedAt:  now.Add(time.Duration(i) * time.Microsecond),
			})
		}
		return tx.Create(&options).Error
	})
	if err != nil {
		return nil, fmt.Errorf("storage: insert poll options: %w", err)
	}
	return options, nil
}

// CastVote записує голос глядача. Лічильники варіантів оновлюються в тій самій транзакції.
func (s *Service) CastVote(ctx context.Context, postID, optionID, userID string, allowRevision bool) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var option models.PollOption
		if err := tx.Where("id = ? AND post_id = ?", optionID, postID).Take(&option).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrOptionNotFound
			}
			return err
		}

		// Рядок голосу блокуємо до кінця транзакції, щоб паралельні переголосування не розійшлися з лічильниками
		var existing models.PollVote
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("post_id = ? AND user_id = ?", postID, userID).
			Take(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.PollVote{PostID: postID, OptionID: optionID, UserID: userID}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&vote)
			if res.Error != nil {
				return res.Error
			}
			// Паралельний запит встиг першим
			if res.RowsAffected == 0 {
				return models.ErrAlreadyVoted
			}
			return bumpVotes(tx, optionID, 1)
		case err != nil:
			return err
		}

		if !allowRevision || existing.OptionID == optionID {
			return models.ErrAlreadyVoted
		}
		// Update перезаписує existing.OptionID, тому старий варіант запам'ятовуємо заздалегідь
		prev := existing.OptionID
		if err := tx.Model(&existing).Update("option_id", optionID).Error; err != nil {
			return err
		}
		if err := bumpVotes(tx, prev, -1); err != nil {
			return err
		}
		return bumpVotes(tx, optionID, 1)
	})
	if err != nil {
		return fmt.Errorf("storage: cast vote: %w", err)
	}
	return nil
}

func bumpVotes(tx *gorm.DB, optionID string, delta int) error {
	return tx.Model(&models.PollOption{}).
		Where("id = ?", optionID).
		UpdateColumn("votes_count", gorm.Expr("GREATEST(votes_count + ?, 0)", delta)).Error
}

func bumpLikes(tx *gorm.DB, postID string, delta int) error {
	return tx.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("likes_count", gorm.Expr("GREATEST(likes_count + ?, 0)", delta)).Error
}

// Like ідемпотентний: повторний лайк нічого не змінює
func (s *Service) Like(ctx context.Context, postID, userID string) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		like := models.PostLike{PostID: postID, UserID: userID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return bumpLikes(tx, postID, 1)
	})
	if err != nil {
		return fmt.Errorf("storage: like: %w", err)
	}
	return nil
}

// Unlike ідемпотентний: зняти відсутній лайк не є помилкою
func (s *Service) Unlike(ctx context.Context, postID, userID string) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.PostLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return bumpLikes(tx, postID, -1)
	})
	if err != nil {
		return fmt.Errorf("storage: unlike: %w", err)
	}
	return nil
}

// InsertSubmission зберігає анонімне звернення. Жодних даних про відправника не пишемо.
func (s *Service) InsertSubmission(ctx context.Context, sub *models.AnonymousSubmission) error {
	if err := s.DB.WithContext(ctx).Create(sub).Error; err != nil {
		s.log.Error("failed to insert submission", zap.String("category", string(sub.Category)), zap.Error(err))
		return fmt.Errorf("storage: insert submission: %w", err)
	}
	return nil
}

// ListSubmissions повертає всі звернення від нових до старих
func (s *Service) ListSubmissions(ctx context.Context) ([]models.AnonymousSubmission, error) {
	var subs []models.AnonymousSubmission
	if err := s.DB.WithContext(ctx).Order("created_at desc").Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("storage: list submissions: %w", err)
	}
	return subs, nil
}

func (s *Service) GetSubmission(ctx context.Context, id string) (*models.AnonymousSubmission, error) {
	var sub models.AnonymousSubmission
	err := s.DB.WithContext(ctx).Where("id = ?", id).Take(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: get submission: %w", err)
	}
	return &sub, nil
}

// UpdateSubmissionStatus змінює лише status та updated_at
func (s *Service) UpdateSubmissionStatus(ctx context.Context, id string, status models.Status, at time.Time) (*models.AnonymousSubmission, error) {
	res := s.DB.WithContext(ctx).
		Model(&models.AnonymousSubmission{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": at,
		})
	if res.Error != nil {
		s.log.Error("failed to update submission status", zap.String("id", id), zap.Error(res.Error))
		return nil, fmt.Errorf("storage: update submission: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.ErrSubmissionNotFound
	}
	return s.GetSubmission(ctx, id)
}

func (s *Service) CreateProfile(ctx context.Context, p *models.Profile) error {
	if err := s.DB.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("storage: create profile: %w", err)
	}
	return nil
}

func (s *Service) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	err := s.DB.WithContext(ctx).Where("id = ?", id).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: get profile: %w", err)
	}
	return &p, nil
}

// SetAdmin видає або забирає доступ до тріажу
func (s *Service) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	res := s.DB.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		Update("is_admin", isAdmin)
	if res.Error != nil {
		return fmt.Errorf("storage: set admin: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrProfileNotFound
	}
	return nil
}
