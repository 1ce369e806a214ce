package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event types recorded against a user's page
const (
	EventTypePageview = "pageview"
	EventTypeClick    = "click"
)

// AnalyticsEvent is one pageview or link click. The raw User-Agent header is
// stored as-is; breaking it down per device/browser is a reporting concern.
type AnalyticsEvent struct {
	ID        string    `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `gorm:"not null;index" json:"user_id"`
	LinkID    string    `gorm:"index" json:"link_id,omitempty"`
	EventType string    `gorm:"not null" json:"event_type"`
	Referrer  string    `json:"referrer,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
}

// BeforeCreate assigns a UUID primary key
func (e *AnalyticsEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
