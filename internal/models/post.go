package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostKind is the type of a feed entry.
type PostKind string

const (
	PostQuery PostKind = "query"
	PostPoll  PostKind = "poll"
)

// Valid reports whether k is a known post kind.
func (k PostKind) Valid() bool {
	return k == PostQuery || k == PostPoll
}

// Post is a feed entry: a free-text query or a poll.
// Everything except the counters and the attached poll state is immutable after creation.
type Post struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	AuthorID     string    `gorm:"type:uuid;not null;index" json:"author_id"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	Type         PostKind  `gorm:"type:text;not null" json:"type"`
	PollQuestion *string   `gorm:"type:text" json:"poll_question,omitempty"`
	LikesCount   int       `gorm:"not null;default:0" json:"likes_count"`
	RepliesCount int       `gorm:"not null;default:0" json:"replies_count"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Author      *Profile     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	PollOptions []PollOption `gorm:"foreignKey:PostID" json:"poll_options,omitempty"`

	// Viewer-relative fields, filled by the feed query.
	UserVote  *PollVote `gorm:"-" json:"user_vote,omitempty"`
	UserLiked bool      `gorm:"-" json:"user_liked"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

// PollOption is one choice of a poll. Options are created together with the poll and never change.
type PollOption struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	PostID     string    `gorm:"type:uuid;not null;index" json:"post_id"`
	OptionText string    `gorm:"type:text;not null" json:"option_text"`
	VotesCount int       `gorm:"not null;default:0" json:"votes_count"`
	CreatedAt  time.Time `json:"created_at"`
}

func (o *PollOption) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return
}

// PollVote is the single vote of a viewer on a poll.
type PollVote struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	PostID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_vote_post_user" json:"post_id"`
	OptionID  string    `gorm:"type:uuid;not null" json:"option_id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_vote_post_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (v *PollVote) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return
}

// PostLike marks that a viewer liked a post. At most one per (post, viewer).
type PostLike struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	PostID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_like_post_user" json:"post_id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_like_post_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *PostLike) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return
}

// NewPost is what the composer hands to the backend.
type NewPost struct {
	AuthorID     string   `json:"author_id,omitempty"`
	Content      string   `json:"content"`
	Type         PostKind `json:"type"`
	PollQuestion *string  `json:"poll_question,omitempty"`
}
