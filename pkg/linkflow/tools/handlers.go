package tools

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linkflowhq/linkflow/pkg/linkflow/auth"
	"github.com/linkflowhq/linkflow/pkg/linkflow/links"
)

// Handler exposes the tool registry over the authenticated HTTP API, so an
// agent can discover and call tools with the same JWT the web client uses.
type Handler struct {
	registry *Registry
}

// NewHandler creates a new tools handler
func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

// CallResponse wraps a tool result
type CallResponse struct {
	Result interface{} `json:"result"`
}

func respondError(c *gin.Context, err error) {
	var ve *links.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
	case errors.Is(err, ErrUnknownTool):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
	case errors.Is(err, links.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
	case errors.Is(err, links.ErrInvariantViolation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Positions must form a contiguous run starting at 1"})
	case errors.Is(err, links.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Temporarily unavailable"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

// List returns the tool descriptors
// @Summary List agent tools
// @Description Get every tool an agent can call: name, description, and argument schema
// @Tags tools
// @Produce json
// @Success 200 {array} Tool
// @Security BearerAuth
// @Router /agent/tools [get]
func (h *Handler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.List())
}

// Call dispatches one tool call for the caller
// @Summary Call an agent tool
// @Description Call a tool by name with a JSON arguments object
// @Tags tools
// @Accept json
// @Produce json
// @Param name path string true "Tool name"
// @Success 200 {object} CallResponse
// @Failure 400 {object} map[string]string "Invalid arguments"
// @Failure 404 {object} map[string]string "Unknown tool or target not found"
// @Security BearerAuth
// @Router /agent/tools/{name} [post]
func (h *Handler) Call(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	args, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	result, err := h.registry.Call(userID, c.Param("name"), json.RawMessage(args))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, CallResponse{Result: result})
}

// RegisterRoutes registers agent tool routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/agent/tools", h.List)
	rg.POST("/agent/tools/:name", h.Call)
}
