package tools

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/linkflowhq/linkflow/pkg/linkflow/auth"
	"github.com/linkflowhq/linkflow/pkg/linkflow/links"
	"github.com/linkflowhq/linkflow/pkg/linkflow/models"
	"gorm.io/gorm"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *links.Service, *gorm.DB) {
	registry, service, db := setupTestRegistry(t)

	gin.SetMode(gin.TestMode)
	handler := NewHandler(registry)

	r := gin.New()
	api := r.Group("/api", auth.AuthMiddleware())
	handler.RegisterRoutes(api)

	return r, service, db
}

func getAuthHeader(user models.User) string {
	token, _ := auth.GenerateToken(user.ID, user.Username, user.Email)
	return "Bearer " + token
}

func TestListToolsEndpoint(t *testing.T) {
	router, _, db := setupTestRouter(t)
	user := createTestUser(t, db, "alice")

	req, _ := http.NewRequest("GET", "/api/agent/tools", nil)
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var tools []Tool
	json.Unmarshal(resp.Body.Bytes(), &tools)

	if len(tools) != 9 {
		t.Errorf("Expected 9 tools, got %d", len(tools))
	}
}

func TestListToolsRequiresAuth(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	req, _ := http.NewRequest("GET", "/api/agent/tools", nil)
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", resp.Code)
	}
}

func TestCallToolEndpoint(t *testing.T) {
	router, service, db := setupTestRouter(t)
	user := createTestUser(t, db, "alice")

	jsonBody := []byte(`{"title":"GitHub","url":"https://github.com/alice"}`)
	req, _ := http.NewRequest("POST", "/api/agent/tools/create_link", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var response struct {
		Result models.Link `json:"result"`
	}
	json.Unmarshal(resp.Body.Bytes(), &response)

	if response.Result.Position != 1 {
		t.Errorf("Expected position 1, got %d", response.Result.Position)
	}

	// The tool wrote through the same service the web API uses
	all, err := service.List(user.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 1 || all[0].Title != "GitHub" {
		t.Errorf("Expected created link via service, got %+v", all)
	}
}

func TestCallToolEndpointUnknownTool(t *testing.T) {
	router, _, db := setupTestRouter(t)
	user := createTestUser(t, db, "alice")

	req, _ := http.NewRequest("POST", "/api/agent/tools/no_such_tool", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCallToolEndpointValidationError(t *testing.T) {
	router, _, db := setupTestRouter(t)
	user := createTestUser(t, db, "alice")

	jsonBody := []byte(`{"title":"no url"}`)
	req, _ := http.NewRequest("POST", "/api/agent/tools/create_link", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d: %s", resp.Code, resp.Body.String())
	}
}
