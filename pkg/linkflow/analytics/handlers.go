package analytics

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linkflowhq/linkflow/pkg/linkflow/models"
	"gorm.io/gorm"
)

// Handler handles analytics tracking requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new analytics handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// TrackRequest represents one pageview or click event
type TrackRequest struct {
	UserID    string `json:"user_id" binding:"required"`
	LinkID    string `json:"link_id"`
	EventType string `json:"event_type" binding:"required"`
	Referrer  string `json:"referrer"`
	UserAgent string `json:"user_agent"`
}

// Track records a pageview or click event (public endpoint).
// Click events that name a link also bump that link's click count; the event
// row and the counter move together or not at all.
// @Summary Track an event
// @Description Record a pageview or link click against a user's page
// @Tags analytics
// @Accept json
// @Produce json
// @Param request body TrackRequest true "Event details"
// @Success 201 {object} models.AnalyticsEvent
// @Failure 400 {object} map[string]string "Validation error"
// @Router /analytics/track [post]
func (h *Handler) Track(c *gin.Context) {
	var req TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userAgent := req.UserAgent
	if userAgent == "" {
		userAgent = c.GetHeader("User-Agent")
	}

	event := models.AnalyticsEvent{
		UserID:    req.UserID,
		LinkID:    req.LinkID,
		EventType: req.EventType,
		Referrer:  req.Referrer,
		UserAgent: userAgent,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		if req.EventType == models.EventTypeClick && req.LinkID != "" {
			return tx.Model(&models.Link{}).
				Where("id = ? AND owner_id = ?", req.LinkID, req.UserID).
				UpdateColumn("click_count", gorm.Expr("click_count + 1")).Error
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record event"})
		return
	}

	c.JSON(http.StatusCreated, event)
}

// RegisterRoutes registers analytics routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analytics/track", h.Track)
}
