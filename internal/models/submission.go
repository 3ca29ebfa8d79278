package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryBullying     Category = "bullying"
	CategoryMentalHealth Category = "mental-health"
	CategoryAcademic     Category = "academic"
	CategorySafety       Category = "safety"
	CategoryOther        Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryBullying,
	CategoryMentalHealth,
	CategoryAcademic,
	CategorySafety,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

func (u Urgency) Valid() bool {
	return u == UrgencyLow || u == UrgencyMedium || u == UrgencyHigh
}

type Status string

const (
	StatusNew      Status = "new"
	StatusReviewed Status = "reviewed"
	StatusResolved Status = "resolved"
)

func (s Status) Valid() bool {
	return s == StatusNew || s == StatusReviewed || s == StatusResolved
}

// AnonymousSubmission is a report routed to admin triage.
// It never carries any reference to the viewer who sent it.
type AnonymousSubmission struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Category  Category  `gorm:"type:text;not null" json:"category"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Urgency   Urgency   `gorm:"type:text;not null;default:medium;index" json:"urgency"`
	Status    Status    `gorm:"type:text;not null;default:new;index" json:"status"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AnonymousSubmission) TableName() string {
	return "anonymous_submissions"
}

// BeforeCreate fills the identity and the default urgency/status.
func (s *AnonymousSubmission) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.Urgency == "" {
		s.Urgency = UrgencyMedium
	}
	if s.Status == "" {
		s.Status = StatusNew
	}
	return
}

// NewSubmission is the payload emitted by the submission form.
type NewSubmission struct {
	Category Category `json:"category"`
	Content  string   `json:"content"`
	Urgency  Urgency  `json:"urgency"`
}
