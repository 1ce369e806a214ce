package analytics

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
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

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(db)

	r := gin.New()
	api := r.Group("/api")
	handler.RegisterRoutes(api)

	return r
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
	return user
}

func track(t *testing.T, router *gin.Engine, body TrackRequest) *httptest.ResponseRecorder {
	jsonBody, _ := json.Marshal(body)
	req, _ := http.NewRequest("POST", "/api/analytics/track", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestTrackPageview(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "alice")

	resp := track(t, router, TrackRequest{
		UserID:    user.ID,
		EventType: models.EventTypePageview,
		Referrer:  "https://twitter.com",
	})

	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var count int64
	db.Model(&models.AnalyticsEvent{}).
		Where("user_id = ? AND event_type = ?", user.ID, models.EventTypePageview).
		Count(&count)
	if count != 1 {
		t.Errorf("Expected 1 pageview event, got %d", count)
	}
}

func TestTrackClickIncrementsCount(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "alice")

	service := links.NewService(db)
	link, err := service.Create(user.ID, links.CreateInput{Title: "GitHub", URL: "https://github.com/alice"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		resp := track(t, router, TrackRequest{
			UserID:    user.ID,
			LinkID:    link.ID,
			EventType: models.EventTypeClick,
		})
		if resp.Code != http.StatusCreated {
			t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
		}
	}

	got, err := service.Get(user.ID, link.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ClickCount != 2 {
		t.Errorf("Expected click count 2, got %d", got.ClickCount)
	}
}

func TestTrackClickForeignLinkLeavesCount(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	owner := createTestUser(t, db, "alice")
	other := createTestUser(t, db, "bob")

	service := links.NewService(db)
	link, _ := service.Create(owner.ID, links.CreateInput{Title: "Mine", URL: "https://example.com"})

	// Event claims another user's page; the counter on the link must not move
	resp := track(t, router, TrackRequest{
		UserID:    other.ID,
		LinkID:    link.ID,
		EventType: models.EventTypeClick,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	got, _ := service.Get(owner.ID, link.ID)
	if got.ClickCount != 0 {
		t.Errorf("Expected click count 0, got %d", got.ClickCount)
	}
}

func TestTrackMissingEventType(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "alice")

	jsonBody := []byte(`{"user_id":"` + user.ID + `"}`)
	req, _ := http.NewRequest("POST", "/api/analytics/track", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}
}

func TestTrackFallsBackToHeaderUserAgent(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "alice")

	jsonBody, _ := json.Marshal(TrackRequest{UserID: user.ID, EventType: models.EventTypePageview})
	req, _ := http.NewRequest("POST", "/api/analytics/track", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "test-browser/1.0")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var event models.AnalyticsEvent
	json.Unmarshal(resp.Body.Bytes(), &event)

	if event.UserAgent != "test-browser/1.0" {
		t.Errorf("Expected user agent from header, got %q", event.UserAgent)
	}
}
