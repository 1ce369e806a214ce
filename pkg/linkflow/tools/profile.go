package tools

import (
	"encoding/json"
	"errors"

	"github.com/linkflowhq/linkflow/pkg/linkflow/models"
	"gorm.io/gorm"
)

// ErrProfileNotFound is returned by profile tools when the owner has no profile row
var ErrProfileNotFound = errors.New("profile not found")

type updateProfileArgs struct {
	Title       *string `json:"title"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar_url"`
	SocialLinks *string `json:"social_links"`
	ThemeID     *string `json:"theme_id"`
	CustomCSS   *string `json:"custom_css"`
}

func (r *Registry) registerProfileTools(db *gorm.DB) {
	r.register(Tool{
		Name:        "get_profile",
		Description: "Get the current user's profile settings",
		InputSchema: json.RawMessage(`{"type":"object","properties":{},"required":[]}`),
		handler: func(ownerID string, args json.RawMessage) (interface{}, error) {
			var profile models.Profile
			if err := db.Where("user_id = ?", ownerID).First(&profile).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrProfileNotFound
				}
				return nil, err
			}
			return profile, nil
		},
	})

	r.register(Tool{
		Name:        "update_profile",
		Description: "Update profile settings; omitted fields are untouched",
		InputSchema: json.RawMessage(`{"type":"object","properties":{
			"title":{"type":"string"},
			"bio":{"type":"string"},
			"avatar_url":{"type":"string"},
			"social_links":{"type":"string","description":"JSON array document"},
			"theme_id":{"type":"string"},
			"custom_css":{"type":"string"}
		},"required":[]}`),
		handler: func(ownerID string, args json.RawMessage) (interface{}, error) {
			var in updateProfileArgs
			if err := decodeArgs(args, &in); err != nil {
				return nil, err
			}

			var profile models.Profile
			if err := db.Where("user_id = ?", ownerID).First(&profile).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrProfileNotFound
				}
				return nil, err
			}

			if in.Title != nil {
				profile.Title = *in.Title
			}
			if in.Bio != nil {
				profile.Bio = *in.Bio
			}
			if in.AvatarURL != nil {
				profile.AvatarURL = *in.AvatarURL
			}
			if in.SocialLinks != nil {
				profile.SocialLinks = *in.SocialLinks
			}
			if in.ThemeID != nil {
				profile.ThemeID = *in.ThemeID
			}
			if in.CustomCSS != nil {
				profile.CustomCSS = *in.CustomCSS
			}

			if err := db.Save(&profile).Error; err != nil {
				return nil, err
			}
			return profile, nil
		},
	})

	r.register(Tool{
		Name:        "list_themes",
		Description: "List builtin themes and the current user's custom themes",
		InputSchema: json.RawMessage(`{"type":"object","properties":{},"required":[]}`),
		handler: func(ownerID string, args json.RawMessage) (interface{}, error) {
			var themes []models.Theme
			err := db.
				Where("type = ?", models.ThemeTypeBuiltin).
				Or("user_id = ? AND type = ?", ownerID, models.ThemeTypeCustom).
				Find(&themes).Error
			if err != nil {
				return nil, err
			}
			return themes, nil
		},
	})

	r.register(Tool{
		Name:        "list_subscribers",
		Description: "List the current user's email subscribers, newest first",
		InputSchema: json.RawMessage(`{"type":"object","properties":{},"required":[]}`),
		handler: func(ownerID string, args json.RawMessage) (interface{}, error) {
			var subs []models.Subscriber
			err := db.Where("user_id = ?", ownerID).
				Order("subscribed_at DESC").
				Find(&subs).Error
			if err != nil {
				return nil, err
			}
			return subs, nil
		},
	})
}
