package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile представляє глядача дошки (viewer).
// IsAdmin визначає, чи доступна йому панель тріажу.
type Profile struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Email     string    `gorm:"type:text" json:"email,omitempty"`
	FullName  string    `gorm:"type:text" json:"full_name,omitempty"`
	AvatarURL string    `gorm:"type:text" json:"avatar_url,omitempty"`
	IsAdmin   bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate: хук GORM, генерує UUID, якщо ID ще не встановлено.
func (p *Profile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

// DisplayName returns the name shown next to posts.
func (p *Profile) DisplayName() string {
	if p == nil {
		return "Anonymous"
	}
	if p.FullName != "" {
		return p.FullName
	}
	if p.Email != "" {
		return p.Email
	}
	return "Anonymous"
}
