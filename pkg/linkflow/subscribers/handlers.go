package subscribers

import (
	"encoding/csv"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linkflowhq/linkflow/pkg/linkflow/auth"
	"github.com/linkflowhq/linkflow/pkg/linkflow/models"
	"gorm.io/gorm"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Handler handles subscriber requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new subscribers handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// SubscribeRequest represents a visitor subscribing to a page
type SubscribeRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Email  string `json:"email" binding:"required"`
}

// ListResponse represents a page of subscribers
type ListResponse struct {
	Subscribers []models.Subscriber `json:"subscribers"`
	Pagination  Pagination          `json:"pagination"`
}

// Pagination describes the page window of a list response
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// Subscribe adds an email subscriber to a user's page (public endpoint)
// @Summary Subscribe to a page
// @Description Subscribe an email address to a user's page
// @Tags subscribers
// @Accept json
// @Produce json
// @Param request body SubscribeRequest true "Subscription details"
// @Success 201 {object} models.Subscriber
// @Failure 400 {object} map[string]string "Validation error or already subscribed"
// @Router /subscribe [post]
func (h *Handler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !emailRegex.MatchString(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", req.UserID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User not found"})
		return
	}

	var existing models.Subscriber
	if err := h.db.Where("user_id = ? AND email = ?", req.UserID, req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Already subscribed"})
		return
	}

	subscriber := models.Subscriber{
		UserID:       req.UserID,
		Email:        req.Email,
		SubscribedAt: time.Now().UTC(),
	}
	if err := h.db.Create(&subscriber).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe"})
		return
	}

	c.JSON(http.StatusCreated, subscriber)
}

// List returns the caller's subscribers, newest first, paginated
// @Summary List subscribers
// @Description Get the caller's subscribers, newest first
// @Tags subscribers
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param pageSize query int false "Page size (default 50, max 500)"
// @Success 200 {object} ListResponse
// @Failure 400 {object} map[string]string "Invalid pagination parameters"
// @Security BearerAuth
// @Router /subscribers [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	page := 1
	if p := c.Query("page"); p != "" {
		page, _ = strconv.Atoi(p)
	}
	pageSize := 50
	if ps := c.Query("pageSize"); ps != "" {
		pageSize, _ = strconv.Atoi(ps)
	}
	if page < 1 || pageSize < 1 || pageSize > 500 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination parameters"})
		return
	}

	var total int64
	if err := h.db.Model(&models.Subscriber{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subscribers"})
		return
	}

	var subs []models.Subscriber
	err := h.db.Where("user_id = ?", userID).
		Order("subscribed_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&subs).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subscribers"})
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Subscribers: subs,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: (total + int64(pageSize) - 1) / int64(pageSize),
		},
	})
}

// Export streams the caller's subscribers as a CSV attachment
// @Summary Export subscribers as CSV
// @Description Download every subscriber of the caller as a CSV file
// @Tags subscribers
// @Produce text/csv
// @Success 200 {string} string "CSV document"
// @Failure 400 {object} map[string]string "No subscribers to export"
// @Security BearerAuth
// @Router /subscribers/export [get]
func (h *Handler) Export(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var subs []models.Subscriber
	err := h.db.Where("user_id = ?", userID).
		Order("subscribed_at ASC").
		Find(&subs).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subscribers"})
		return
	}
	if len(subs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No subscribers to export"})
		return
	}

	filename := "subscribers-" + time.Now().UTC().Format("2006-01-02") + ".csv"
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	w.Write([]string{"Email", "Subscribed At"})
	for _, sub := range subs {
		w.Write([]string{sub.Email, sub.SubscribedAt.UTC().Format(time.RFC3339)})
	}
	w.Flush()
	// Headers are already sent; the best we can do for a mid-stream failure
	// is leave a trace of the truncated export
	if err := w.Error(); err != nil {
		log.Printf("subscriber export for user %s truncated: %v", userID, err)
	}
}

// RegisterRoutes registers authenticated subscriber routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/subscribers", h.List)
	rg.GET("/subscribers/export", h.Export)
}

// RegisterPublicRoutes registers the public subscribe route
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/subscribe", h.Subscribe)
}
