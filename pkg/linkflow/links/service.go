package links

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/linkflowhq/linkflow/pkg/linkflow/models"
	"gorm.io/gorm"
)

// Service owns every mutation of a user's link set and the ordering
// invariant that goes with it: for each owner, positions are pairwise
// distinct and form a contiguous run starting at 1. Both the HTTP API and
// the agent tools layer go through this one service.
//
// Every multi-statement operation runs inside a single transaction, and
// mutations for the same owner are serialized with a per-owner mutex so two
// concurrent creates cannot compute the same next position. Different
// owners never contend.
type Service struct {
	db    *gorm.DB
	locks sync.Map // owner id -> *sync.Mutex
}

// NewService creates a link service on top of the given store handle
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) lockOwner(ownerID string) func() {
	v, _ := s.locks.LoadOrStore(ownerID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// storeError maps a transaction error to the service's error taxonomy.
// Core errors pass through; anything else is a retryable store failure.
func storeError(err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvariantViolation) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// CreateInput carries the fields for a new link. Everything beyond Title
// and URL is optional presentation data carried opaquely.
type CreateInput struct {
	Title         string
	URL           string
	Description   string
	Type          string
	IconURL       string
	ThumbnailURL  string
	AnimationType string
	Highlight     bool
	Enabled       *bool // nil means enabled
	ScheduledFrom *time.Time
	ScheduledTo   *time.Time
	UTMSource     string
	UTMMedium     string
	UTMCampaign   string
	CustomCSS     string
}

// Create appends a new link at the end of the owner's list. The next
// position is computed and the row inserted inside one transaction, so an
// append can never introduce a gap or a duplicate.
func (s *Service) Create(ownerID string, in CreateInput) (*models.Link, error) {
	if in.Title == "" {
		return nil, &ValidationError{"Title is required"}
	}
	if in.URL == "" {
		return nil, &ValidationError{"URL is required"}
	}

	link := models.Link{
		OwnerID:       ownerID,
		Title:         in.Title,
		URL:           in.URL,
		Description:   in.Description,
		Type:          in.Type,
		IconURL:       in.IconURL,
		ThumbnailURL:  in.ThumbnailURL,
		AnimationType: in.AnimationType,
		Highlight:     in.Highlight,
		Enabled:       true,
		ScheduledFrom: in.ScheduledFrom,
		ScheduledTo:   in.ScheduledTo,
		UTMSource:     in.UTMSource,
		UTMMedium:     in.UTMMedium,
		UTMCampaign:   in.UTMCampaign,
		CustomCSS:     in.CustomCSS,
	}
	if in.Enabled != nil {
		link.Enabled = *in.Enabled
	}

	unlock := s.lockOwner(ownerID)
	defer unlock()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var maxPosition int
		if err := tx.Model(&models.Link{}).
			Where("owner_id = ?", ownerID).
			Select("COALESCE(MAX(position), 0)").
			Scan(&maxPosition).Error; err != nil {
			return err
		}
		link.Position = maxPosition + 1
		return tx.Create(&link).Error
	})
	if err != nil {
		return nil, storeError(err)
	}

	return &link, nil
}

// UpdatePatch carries partial update fields. Nil means leave untouched.
// Position is deliberately absent: ordering changes go through Reorder.
type UpdatePatch struct {
	Title         *string
	URL           *string
	Description   *string
	Type          *string
	IconURL       *string
	ThumbnailURL  *string
	AnimationType *string
	Highlight     *bool
	Enabled       *bool
	ScheduledFrom *time.Time
	ScheduledTo   *time.Time
	UTMSource     *string
	UTMMedium     *string
	UTMCampaign   *string
	CustomCSS     *string
}

// IsEmpty reports whether the patch touches no fields
func (p UpdatePatch) IsEmpty() bool {
	return p.Title == nil && p.URL == nil && p.Description == nil &&
		p.Type == nil && p.IconURL == nil && p.ThumbnailURL == nil &&
		p.AnimationType == nil && p.Highlight == nil && p.Enabled == nil &&
		p.ScheduledFrom == nil && p.ScheduledTo == nil &&
		p.UTMSource == nil && p.UTMMedium == nil && p.UTMCampaign == nil &&
		p.CustomCSS == nil
}

// Update applies the patch to the owner's link. Absent fields are left
// untouched; position cannot change here.
func (s *Service) Update(ownerID, linkID string, patch UpdatePatch) (*models.Link, error) {
	if patch.IsEmpty() {
		return nil, &ValidationError{"No fields to update"}
	}
	if patch.Title != nil && *patch.Title == "" {
		return nil, &ValidationError{"Title must not be empty"}
	}
	if patch.URL != nil && *patch.URL == "" {
		return nil, &ValidationError{"URL must not be empty"}
	}

	var link models.Link
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND owner_id = ?", linkID, ownerID).First(&link).Error; err != nil {
			return err
		}

		if patch.Title != nil {
			link.Title = *patch.Title
		}
		if patch.URL != nil {
			link.URL = *patch.URL
		}
		if patch.Description != nil {
			link.Description = *patch.Description
		}
		if patch.Type != nil {
			link.Type = *patch.Type
		}
		if patch.IconURL != nil {
			link.IconURL = *patch.IconURL
		}
		if patch.ThumbnailURL != nil {
			link.ThumbnailURL = *patch.ThumbnailURL
		}
		if patch.AnimationType != nil {
			link.AnimationType = *patch.AnimationType
		}
		if patch.Highlight != nil {
			link.Highlight = *patch.Highlight
		}
		if patch.Enabled != nil {
			link.Enabled = *patch.Enabled
		}
		if patch.ScheduledFrom != nil {
			link.ScheduledFrom = patch.ScheduledFrom
		}
		if patch.ScheduledTo != nil {
			link.ScheduledTo = patch.ScheduledTo
		}
		if patch.UTMSource != nil {
			link.UTMSource = *patch.UTMSource
		}
		if patch.UTMMedium != nil {
			link.UTMMedium = *patch.UTMMedium
		}
		if patch.UTMCampaign != nil {
			link.UTMCampaign = *patch.UTMCampaign
		}
		if patch.CustomCSS != nil {
			link.CustomCSS = *patch.CustomCSS
		}

		return tx.Save(&link).Error
	})
	if err != nil {
		return nil, storeError(err)
	}

	return &link, nil
}

// Delete removes the owner's link and closes the gap: every remaining link
// with a greater position shifts down by one. Both steps commit together,
// so readers never observe a gap.
func (s *Service) Delete(ownerID, linkID string) error {
	unlock := s.lockOwner(ownerID)
	defer unlock()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var link models.Link
		if err := tx.Where("id = ? AND owner_id = ?", linkID, ownerID).First(&link).Error; err != nil {
			return err
		}
		if err := tx.Delete(&link).Error; err != nil {
			return err
		}
		// The shift is bookkeeping, not a caller edit: leave updated_at alone
		return tx.Model(&models.Link{}).
			Where("owner_id = ? AND position > ?", ownerID, link.Position).
			UpdateColumn("position", gorm.Expr("position - 1")).Error
	})
	if err != nil {
		return storeError(err)
	}
	return nil
}

// PositionAssignment pairs a link id with its new position
type PositionAssignment struct {
	ID       string `json:"id" binding:"required"`
	Position int    `json:"position" binding:"required"`
}

// Reorder atomically reassigns positions for the given links. Every id must
// belong to the owner or nothing is written. After the writes, the owner's
// full position set is re-read inside the same transaction and must be
// exactly 1..N; otherwise the whole reorder rolls back with
// ErrInvariantViolation. Returns the owner's links in their new order.
func (s *Service) Reorder(ownerID string, items []PositionAssignment) ([]models.Link, error) {
	if len(items) == 0 {
		return nil, &ValidationError{"Items must be a non-empty array"}
	}

	unlock := s.lockOwner(ownerID)
	defer unlock()

	var ordered []models.Link
	err := s.db.Transaction(func(tx *gorm.DB) error {
		ids := make([]string, len(items))
		for i, item := range items {
			ids[i] = item.ID
		}

		var owned int64
		if err := tx.Model(&models.Link{}).
			Where("owner_id = ? AND id IN ?", ownerID, ids).
			Count(&owned).Error; err != nil {
			return err
		}
		if owned != int64(len(items)) {
			return ErrNotFound
		}

		for _, item := range items {
			if err := tx.Model(&models.Link{}).
				Where("id = ? AND owner_id = ?", item.ID, ownerID).
				Update("position", item.Position).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("owner_id = ?", ownerID).Order("position ASC").Find(&ordered).Error; err != nil {
			return err
		}
		for i, link := range ordered {
			if link.Position != i+1 {
				log.Printf("reorder for owner %s produced position %d at rank %d, rolling back", ownerID, link.Position, i+1)
				return ErrInvariantViolation
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}

	return ordered, nil
}

// Get returns one of the owner's links
func (s *Service) Get(ownerID, linkID string) (*models.Link, error) {
	var link models.Link
	if err := s.db.Where("id = ? AND owner_id = ?", linkID, ownerID).First(&link).Error; err != nil {
		return nil, storeError(err)
	}
	return &link, nil
}

// List returns all of the owner's links ordered by position ascending
func (s *Service) List(ownerID string) ([]models.Link, error) {
	var list []models.Link
	if err := s.db.Where("owner_id = ?", ownerID).Order("position ASC").Find(&list).Error; err != nil {
		return nil, storeError(err)
	}
	return list, nil
}
