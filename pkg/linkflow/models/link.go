package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Link represents one outbound entry on a user's public page.
// Position defines display order and must stay a contiguous 1..N run per
// owner; all mutations go through the links service, which owns that
// invariant.
type Link struct {
	ID            string     `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	OwnerID       string     `gorm:"not null;index:idx_links_owner_position" json:"owner_id"`
	Title         string     `gorm:"not null" json:"title"`
	URL           string     `gorm:"not null" json:"url"`
	Description   string     `json:"description,omitempty"`
	Type          string     `json:"type,omitempty"` // link | youtube | spotify | social
	IconURL       string     `json:"icon_url,omitempty"`
	ThumbnailURL  string     `json:"thumbnail_url,omitempty"`
	AnimationType string     `json:"animation_type,omitempty"` // bounce | pulse | none
	Highlight     bool       `json:"highlight"`
	Enabled       bool       `json:"enabled"`
	ScheduledFrom *time.Time `json:"scheduled_from,omitempty"`
	ScheduledTo   *time.Time `json:"scheduled_to,omitempty"`
	UTMSource     string     `json:"utm_source,omitempty"`
	UTMMedium     string     `json:"utm_medium,omitempty"`
	UTMCampaign   string     `json:"utm_campaign,omitempty"`
	CustomCSS     string     `json:"custom_css,omitempty"`
	Position      int        `gorm:"not null;index:idx_links_owner_position" json:"position"`
	ClickCount    uint       `json:"click_count"`
}

// BeforeCreate assigns a UUID primary key
func (l *Link) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
