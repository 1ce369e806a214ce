package links

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linkflowhq/linkflow/pkg/linkflow/auth"
)

// Handler handles link-related requests
type Handler struct {
	service *Service
}

// NewHandler creates a new links handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateLinkRequest represents the request to create a link
type CreateLinkRequest struct {
	Title         string     `json:"title" binding:"required"`
	URL           string     `json:"url" binding:"required"`
	Description   string     `json:"description"`
	Type          string     `json:"type"`
	IconURL       string     `json:"icon_url"`
	ThumbnailURL  string     `json:"thumbnail_url"`
	AnimationType string     `json:"animation_type"`
	Highlight     bool       `json:"highlight"`
	Enabled       *bool      `json:"enabled"`
	ScheduledFrom *time.Time `json:"scheduled_from"`
	ScheduledTo   *time.Time `json:"scheduled_to"`
	UTMSource     string     `json:"utm_source"`
	UTMMedium     string     `json:"utm_medium"`
	UTMCampaign   string     `json:"utm_campaign"`
	CustomCSS     string     `json:"custom_css"`
}

// UpdateLinkRequest represents the request to update a link.
// Absent fields are left untouched. Position is not accepted here:
// ordering changes go through the reorder endpoint.
type UpdateLinkRequest struct {
	Title         *string    `json:"title"`
	URL           *string    `json:"url"`
	Description   *string    `json:"description"`
	Type          *string    `json:"type"`
	IconURL       *string    `json:"icon_url"`
	ThumbnailURL  *string    `json:"thumbnail_url"`
	AnimationType *string    `json:"animation_type"`
	Highlight     *bool      `json:"highlight"`
	Enabled       *bool      `json:"enabled"`
	ScheduledFrom *time.Time `json:"scheduled_from"`
	ScheduledTo   *time.Time `json:"scheduled_to"`
	UTMSource     *string    `json:"utm_source"`
	UTMMedium     *string    `json:"utm_medium"`
	UTMCampaign   *string    `json:"utm_campaign"`
	CustomCSS     *string    `json:"custom_css"`
}

func (r UpdateLinkRequest) patch() UpdatePatch {
	return UpdatePatch{
		Title:         r.Title,
		URL:           r.URL,
		Description:   r.Description,
		Type:          r.Type,
		IconURL:       r.IconURL,
		ThumbnailURL:  r.ThumbnailURL,
		AnimationType: r.AnimationType,
		Highlight:     r.Highlight,
		Enabled:       r.Enabled,
		ScheduledFrom: r.ScheduledFrom,
		ScheduledTo:   r.ScheduledTo,
		UTMSource:     r.UTMSource,
		UTMMedium:     r.UTMMedium,
		UTMCampaign:   r.UTMCampaign,
		CustomCSS:     r.CustomCSS,
	}
}

// ReorderRequest represents the request to reorder links
type ReorderRequest struct {
	Items []PositionAssignment `json:"items" binding:"required"`
}

// respondError maps service errors to HTTP responses
func respondError(c *gin.Context, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
	case errors.Is(err, ErrInvariantViolation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Positions must form a contiguous run starting at 1"})
	case errors.Is(err, ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Temporarily unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// List returns the caller's links in display order
// @Summary List links
// @Description Get all of the caller's links ordered by position
// @Tags links
// @Produce json
// @Success 200 {array} models.Link
// @Security BearerAuth
// @Router /links [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	list, err := h.service.List(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Create creates a new link at the end of the caller's list
// @Summary Create a link
// @Description Create a new link; it is appended after the caller's existing links
// @Tags links
// @Accept json
// @Produce json
// @Param request body CreateLinkRequest true "Link details"
// @Success 201 {object} models.Link
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /links [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link, err := h.service.Create(userID, CreateInput{
		Title:         req.Title,
		URL:           req.URL,
		Description:   req.Description,
		Type:          req.Type,
		IconURL:       req.IconURL,
		ThumbnailURL:  req.ThumbnailURL,
		AnimationType: req.AnimationType,
		Highlight:     req.Highlight,
		Enabled:       req.Enabled,
		ScheduledFrom: req.ScheduledFrom,
		ScheduledTo:   req.ScheduledTo,
		UTMSource:     req.UTMSource,
		UTMMedium:     req.UTMMedium,
		UTMCampaign:   req.UTMCampaign,
		CustomCSS:     req.CustomCSS,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, link)
}

// Get returns one of the caller's links
// @Summary Get a link
// @Description Get one of the caller's links by id
// @Tags links
// @Produce json
// @Param id path string true "Link ID"
// @Success 200 {object} models.Link
// @Failure 404 {object} map[string]string "Link not found"
// @Security BearerAuth
// @Router /links/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	link, err := h.service.Get(userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

// Update partially updates one of the caller's links
// @Summary Update a link
// @Description Apply a partial update to a link; absent fields are untouched
// @Tags links
// @Accept json
// @Produce json
// @Param id path string true "Link ID"
// @Param request body UpdateLinkRequest true "Fields to update"
// @Success 200 {object} models.Link
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Link not found"
// @Security BearerAuth
// @Router /links/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link, err := h.service.Update(userID, c.Param("id"), req.patch())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

// Delete deletes one of the caller's links and closes the position gap
// @Summary Delete a link
// @Description Delete a link; later links shift down to keep positions contiguous
// @Tags links
// @Param id path string true "Link ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Link not found"
// @Security BearerAuth
// @Router /links/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	if err := h.service.Delete(userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Reorder atomically reassigns positions across the caller's links
// @Summary Reorder links
// @Description Reassign positions for the given links in one transaction
// @Tags links
// @Accept json
// @Produce json
// @Param request body ReorderRequest true "New position assignments"
// @Success 200 {array} models.Link
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "One or more links not found"
// @Security BearerAuth
// @Router /links/reorder [post]
func (h *Handler) Reorder(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ordered, err := h.service.Reorder(userID, req.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordered)
}

// RegisterRoutes registers link routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/links", h.List)
	rg.POST("/links", h.Create)
	rg.POST("/links/reorder", h.Reorder)
	rg.GET("/links/:id", h.Get)
	rg.PATCH("/links/:id", h.Update)
	rg.DELETE("/links/:id", h.Delete)
}
