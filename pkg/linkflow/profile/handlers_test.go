package profile

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
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	models.AutoMigrate(db)
	return db
}

func setupTestRouter(db *gorm.DB) (*gin.Engine, *links.Service) {
	gin.SetMode(gin.TestMode)
	service := links.NewService(db)
	handler := NewHandler(db, service)

	r := gin.New()
	api := r.Group("/api")
	handler.RegisterPublicRoutes(api)

	authed := api.Group("", auth.AuthMiddleware())
	handler.RegisterRoutes(authed)

	return r, service
}

func createTestUser(t *testing.T, db *gorm.DB, username string) models.User {
	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	profile := models.Profile{UserID: user.ID, Title: username}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("Failed to create test profile: %v", err)
	}
	return user
}

func getAuthHeader(user models.User) string {
	token, _ := auth.GenerateToken(user.ID, user.Username, user.Email)
	return "Bearer " + token
}

func TestGetProfile(t *testing.T) {
	db := setupTestDB(t)
	router, _ := setupTestRouter(db)
	user := createTestUser(t, db, "alice")

	req, _ := http.NewRequest("GET", "/api/profile", nil)
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var profile models.Profile
	json.Unmarshal(resp.Body.Bytes(), &profile)

	if profile.Title != "alice" {
		t.Errorf("Expected title alice, got %s", profile.Title)
	}
}

func TestUpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	router, _ := setupTestRouter(db)
	user := createTestUser(t, db, "alice")

	jsonBody := []byte(`{"title":"Alice's Links","bio":"Hello there"}`)
	req, _ := http.NewRequest("PATCH", "/api/profile", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var profile models.Profile
	json.Unmarshal(resp.Body.Bytes(), &profile)

	if profile.Title != "Alice's Links" {
		t.Errorf("Expected updated title, got %s", profile.Title)
	}
	if profile.Bio != "Hello there" {
		t.Errorf("Expected updated bio, got %s", profile.Bio)
	}
}

func TestUpdateProfileEmptyPatch(t *testing.T) {
	db := setupTestDB(t)
	router, _ := setupTestRouter(db)
	user := createTestUser(t, db, "alice")

	req, _ := http.NewRequest("PATCH", "/api/profile", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}
}

func TestUpdateProfileLeavesOtherFields(t *testing.T) {
	db := setupTestDB(t)
	router, _ := setupTestRouter(db)
	user := createTestUser(t, db, "alice")

	db.Model(&models.Profile{}).Where("user_id = ?", user.ID).Update("bio", "original bio")

	jsonBody := []byte(`{"title":"Only Title"}`)
	req, _ := http.NewRequest("PATCH", "/api/profile", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	var profile models.Profile
	json.Unmarshal(resp.Body.Bytes(), &profile)

	if profile.Bio != "original bio" {
		t.Errorf("Expected bio untouched, got %q", profile.Bio)
	}
}

func TestGetPublicProfile(t *testing.T) {
	db := setupTestDB(t)
	router, service := setupTestRouter(db)
	user := createTestUser(t, db, "alice")

	visible, err := service.Create(user.ID, links.CreateInput{Title: "GitHub", URL: "https://github.com/alice"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	disabled := false
	hidden, err := service.Create(user.ID, links.CreateInput{Title: "Hidden", URL: "https://example.com", Enabled: &disabled})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	req, _ := http.NewRequest("GET", "/api/profiles/alice", nil)
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var page PublicProfileResponse
	json.Unmarshal(resp.Body.Bytes(), &page)

	if page.Username != "alice" {
		t.Errorf("Expected username alice, got %s", page.Username)
	}
	if len(page.Links) != 1 {
		t.Fatalf("Expected 1 visible link, got %d", len(page.Links))
	}
	if page.Links[0].ID != visible.ID {
		t.Errorf("Expected visible link %s, got %s", visible.ID, page.Links[0].ID)
	}
	for _, l := range page.Links {
		if l.ID == hidden.ID {
			t.Error("Disabled link should not appear on public page")
		}
	}
}

func TestGetPublicProfileCountsViews(t *testing.T) {
	db := setupTestDB(t)
	router, _ := setupTestRouter(db)
	user := createTestUser(t, db, "alice")

	for i := 0; i < 3; i++ {
		db.Create(&models.AnalyticsEvent{UserID: user.ID, EventType: models.EventTypePageview})
	}
	db.Create(&models.AnalyticsEvent{UserID: user.ID, EventType: models.EventTypeClick})

	req, _ := http.NewRequest("GET", "/api/profiles/alice", nil)
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	var page PublicProfileResponse
	json.Unmarshal(resp.Body.Bytes(), &page)

	if page.TotalViews != 3 {
		t.Errorf("Expected 3 views, got %d", page.TotalViews)
	}
}

func TestGetPublicProfileViewCountFailure(t *testing.T) {
	db := setupTestDB(t)
	router, _ := setupTestRouter(db)
	createTestUser(t, db, "alice")

	if err := db.Migrator().DropTable(&models.AnalyticsEvent{}); err != nil {
		t.Fatalf("DropTable failed: %v", err)
	}

	req, _ := http.NewRequest("GET", "/api/profiles/alice", nil)
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestGetPublicProfileUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	router, _ := setupTestRouter(db)

	req, _ := http.NewRequest("GET", "/api/profiles/nobody", nil)
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.Code)
	}
}
