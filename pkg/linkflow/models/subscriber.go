package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscriber is an email address that subscribed to a user's page
type Subscriber struct {
	ID           string    `gorm:"primarykey" json:"id"`
	UserID       string    `gorm:"not null;index:idx_subscribers_user_email" json:"user_id"`
	Email        string    `gorm:"not null;index:idx_subscribers_user_email" json:"email"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

// BeforeCreate assigns a UUID primary key
func (s *Subscriber) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
