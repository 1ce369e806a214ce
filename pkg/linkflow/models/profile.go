package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile holds the page-level presentation settings for a user.
// SocialLinks carries a JSON array as an opaque string; this core never
// interprets it.
type Profile struct {
	ID             string    `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	UserID         string    `gorm:"uniqueIndex;not null" json:"user_id"`
	Title          string    `json:"title"`
	Bio            string    `json:"bio,omitempty"`
	AvatarURL      string    `json:"avatar_url,omitempty"`
	CustomLogoURL  string    `json:"custom_logo_url,omitempty"`
	SocialLinks    string    `json:"social_links,omitempty"`
	ThemeID        string    `json:"theme_id,omitempty"`
	SEOTitle       string    `json:"seo_title,omitempty"`
	SEODescription string    `json:"seo_description,omitempty"`
	CustomCSS      string    `json:"custom_css,omitempty"`
}

// BeforeCreate assigns a UUID primary key
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
