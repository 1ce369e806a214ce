package themes

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linkflowhq/linkflow/pkg/linkflow/auth"
	"github.com/linkflowhq/linkflow/pkg/linkflow/models"
	"gorm.io/gorm"
)

// Handler handles theme requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new themes handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateThemeRequest represents the request to create a custom theme
type CreateThemeRequest struct {
	Name   string          `json:"name" binding:"required"`
	Config json.RawMessage `json:"config" binding:"required"`
}

// ThemeResponse represents a theme in API responses, with the config
// returned as the JSON document it was stored as
type ThemeResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Type      models.ThemeType `json:"type"`
	Config    json.RawMessage  `json:"config,omitempty"`
	CreatedAt string           `json:"created_at"`
	UpdatedAt string           `json:"updated_at"`
}

func themeToResponse(theme models.Theme) ThemeResponse {
	resp := ThemeResponse{
		ID:        theme.ID,
		Name:      theme.Name,
		Type:      theme.Type,
		CreatedAt: theme.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt: theme.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if theme.Config != "" {
		resp.Config = json.RawMessage(theme.Config)
	}
	return resp
}

// List returns all builtin themes plus the caller's custom themes
// @Summary List themes
// @Description Get every builtin theme and the caller's custom themes
// @Tags themes
// @Produce json
// @Success 200 {array} ThemeResponse
// @Security BearerAuth
// @Router /themes [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var themes []models.Theme
	err := h.db.
		Where("type = ?", models.ThemeTypeBuiltin).
		Or("user_id = ? AND type = ?", userID, models.ThemeTypeCustom).
		Find(&themes).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch themes"})
		return
	}

	responses := make([]ThemeResponse, len(themes))
	for i, theme := range themes {
		responses[i] = themeToResponse(theme)
	}
	c.JSON(http.StatusOK, responses)
}

// Create creates a custom theme for the caller
// @Summary Create a custom theme
// @Description Create a custom theme with an opaque JSON config
// @Tags themes
// @Accept json
// @Produce json
// @Param request body CreateThemeRequest true "Theme details"
// @Success 201 {object} ThemeResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /themes [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreateThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	theme := models.Theme{
		UserID: userID,
		Name:   req.Name,
		Type:   models.ThemeTypeCustom,
		Config: string(req.Config),
	}
	if err := h.db.Create(&theme).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create theme"})
		return
	}

	c.JSON(http.StatusCreated, themeToResponse(theme))
}

// Delete deletes one of the caller's custom themes
// @Summary Delete a custom theme
// @Description Delete a custom theme owned by the caller; builtin themes cannot be deleted
// @Tags themes
// @Param id path string true "Theme ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Theme not found"
// @Security BearerAuth
// @Router /themes/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var theme models.Theme
	err := h.db.
		Where("id = ? AND user_id = ? AND type = ?", c.Param("id"), userID, models.ThemeTypeCustom).
		First(&theme).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Theme not found"})
		return
	}

	if err := h.db.Delete(&theme).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete theme"})
		return
	}
	c.Status(http.StatusNoContent)
}

// RegisterRoutes registers theme routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/themes", h.List)
	rg.POST("/themes", h.Create)
	rg.DELETE("/themes/:id", h.Delete)
}
