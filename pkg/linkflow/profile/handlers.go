package profile

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linkflowhq/linkflow/pkg/linkflow/auth"
	"github.com/linkflowhq/linkflow/pkg/linkflow/links"
	"github.com/linkflowhq/linkflow/pkg/linkflow/models"
	"gorm.io/gorm"
)

// Handler handles profile requests
type Handler struct {
	db    *gorm.DB
	links *links.Service
}

// NewHandler creates a new profile handler
func NewHandler(db *gorm.DB, links *links.Service) *Handler {
	return &Handler{db: db, links: links}
}

// UpdateProfileRequest represents a partial profile update.
// Absent fields are left untouched.
type UpdateProfileRequest struct {
	Title          *string `json:"title"`
	Bio            *string `json:"bio"`
	AvatarURL      *string `json:"avatar_url"`
	CustomLogoURL  *string `json:"custom_logo_url"`
	SocialLinks    *string `json:"social_links"`
	ThemeID        *string `json:"theme_id"`
	SEOTitle       *string `json:"seo_title"`
	SEODescription *string `json:"seo_description"`
	CustomCSS      *string `json:"custom_css"`
}

func (r UpdateProfileRequest) isEmpty() bool {
	return r.Title == nil && r.Bio == nil && r.AvatarURL == nil &&
		r.CustomLogoURL == nil && r.SocialLinks == nil && r.ThemeID == nil &&
		r.SEOTitle == nil && r.SEODescription == nil && r.CustomCSS == nil
}

// PublicLink is one visible link on the public page
type PublicLink struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	URL           string     `json:"url"`
	Description   string     `json:"description,omitempty"`
	Type          string     `json:"type"`
	AnimationType string     `json:"animation_type,omitempty"`
	IsHighlighted bool       `json:"is_highlighted"`
	IsScheduled   bool       `json:"is_scheduled"`
	ScheduledFrom *time.Time `json:"scheduled_from,omitempty"`
	ScheduledTo   *time.Time `json:"scheduled_to,omitempty"`
	Position      int        `json:"position"`
}

// PublicProfileResponse is the payload rendered on a public page
type PublicProfileResponse struct {
	ID          string          `json:"id"`
	Username    string          `json:"username"`
	Title       string          `json:"title"`
	Bio         string          `json:"bio,omitempty"`
	AvatarURL   string          `json:"avatar_url,omitempty"`
	ThemeID     string          `json:"theme_id,omitempty"`
	CustomCSS   string          `json:"custom_css,omitempty"`
	TotalViews  int64           `json:"total_views"`
	SocialIcons json.RawMessage `json:"social_icons"`
	Links       []PublicLink    `json:"links"`
}

// Get returns the caller's own profile
// @Summary Get own profile
// @Description Get the authenticated user's profile settings
// @Tags profile
// @Produce json
// @Success 200 {object} models.Profile
// @Failure 404 {object} map[string]string "Profile not found"
// @Security BearerAuth
// @Router /profile [get]
func (h *Handler) Get(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var profile models.Profile
	if err := h.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Update partially updates the caller's profile
// @Summary Update own profile
// @Description Apply a partial update to the profile; absent fields are untouched
// @Tags profile
// @Accept json
// @Produce json
// @Param request body UpdateProfileRequest true "Fields to update"
// @Success 200 {object} models.Profile
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Profile not found"
// @Security BearerAuth
// @Router /profile [patch]
func (h *Handler) Update(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.isEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	var profile models.Profile
	if err := h.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	if req.Title != nil {
		profile.Title = *req.Title
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = *req.AvatarURL
	}
	if req.CustomLogoURL != nil {
		profile.CustomLogoURL = *req.CustomLogoURL
	}
	if req.SocialLinks != nil {
		profile.SocialLinks = *req.SocialLinks
	}
	if req.ThemeID != nil {
		profile.ThemeID = *req.ThemeID
	}
	if req.SEOTitle != nil {
		profile.SEOTitle = *req.SEOTitle
	}
	if req.SEODescription != nil {
		profile.SEODescription = *req.SEODescription
	}
	if req.CustomCSS != nil {
		profile.CustomCSS = *req.CustomCSS
	}

	if err := h.db.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetPublic returns the public page for a username
// @Summary Get a public profile page
// @Description Get a user's public page: profile, enabled links in display order, view count
// @Tags profile
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} PublicProfileResponse
// @Failure 404 {object} map[string]string "User not found"
// @Router /profiles/{username} [get]
func (h *Handler) GetPublic(c *gin.Context) {
	username := c.Param("username")

	var user models.User
	if err := h.db.Where("username = ?", username).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User '" + username + "' not found"})
		return
	}

	var profile models.Profile
	if err := h.db.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		// Fall back to defaults when the profile row is missing
		profile = models.Profile{UserID: user.ID, Title: user.Username}
	}

	all, err := h.links.List(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch links"})
		return
	}

	publicLinks := make([]PublicLink, 0, len(all))
	for _, l := range all {
		if !l.Enabled {
			continue
		}
		linkType := l.Type
		if linkType == "" {
			linkType = "link"
		}
		publicLinks = append(publicLinks, PublicLink{
			ID:            l.ID,
			Title:         l.Title,
			URL:           l.URL,
			Description:   l.Description,
			Type:          linkType,
			AnimationType: l.AnimationType,
			IsHighlighted: l.Highlight,
			IsScheduled:   l.ScheduledFrom != nil && l.ScheduledTo != nil,
			ScheduledFrom: l.ScheduledFrom,
			ScheduledTo:   l.ScheduledTo,
			Position:      l.Position,
		})
	}

	var totalViews int64
	if err := h.db.Model(&models.AnalyticsEvent{}).
		Where("user_id = ? AND event_type = ?", user.ID, models.EventTypePageview).
		Count(&totalViews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch view count"})
		return
	}

	socialIcons := json.RawMessage("[]")
	if profile.SocialLinks != "" {
		socialIcons = json.RawMessage(profile.SocialLinks)
	}

	c.JSON(http.StatusOK, PublicProfileResponse{
		ID:          user.ID,
		Username:    user.Username,
		Title:       profile.Title,
		Bio:         profile.Bio,
		AvatarURL:   profile.AvatarURL,
		ThemeID:     profile.ThemeID,
		CustomCSS:   profile.CustomCSS,
		TotalViews:  totalViews,
		SocialIcons: socialIcons,
		Links:       publicLinks,
	})
}

// RegisterRoutes registers authenticated profile routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile", h.Get)
	rg.PATCH("/profile", h.Update)
}

// RegisterPublicRoutes registers the public page route
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/profiles/:username", h.GetPublic)
}
