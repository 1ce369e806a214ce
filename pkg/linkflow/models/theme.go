package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ThemeType distinguishes shipped themes from user-created ones
type ThemeType string

const (
	ThemeTypeBuiltin ThemeType = "builtin"
	ThemeTypeCustom  ThemeType = "custom"
)

// Theme is a visual theme a profile can reference. Builtin themes have no
// owner; custom themes belong to the user who created them. Config is a JSON
// document carried opaquely - rendering happens elsewhere.
type Theme struct {
	ID        string    `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    string    `gorm:"index" json:"user_id,omitempty"`
	Name      string    `gorm:"not null" json:"name"`
	Type      ThemeType `gorm:"type:varchar(20);not null" json:"type"`
	Config    string    `json:"config,omitempty"`
}

// BeforeCreate assigns a UUID primary key
func (t *Theme) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
