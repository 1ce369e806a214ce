package themes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/linkflowhq/linkflow/pkg/linkflow/auth"
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
	api := r.Group("/api", auth.AuthMiddleware())
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

func getAuthHeader(user models.User) string {
	token, _ := auth.GenerateToken(user.ID, user.Username, user.Email)
	return "Bearer " + token
}

func createBuiltinTheme(t *testing.T, db *gorm.DB, name string) models.Theme {
	theme := models.Theme{
		Name:   name,
		Type:   models.ThemeTypeBuiltin,
		Config: `{"background":"#ffffff"}`,
	}
	if err := db.Create(&theme).Error; err != nil {
		t.Fatalf("Failed to create builtin theme: %v", err)
	}
	return theme
}

func TestListThemes(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	createBuiltinTheme(t, db, "Classic")
	db.Create(&models.Theme{UserID: alice.ID, Name: "Mine", Type: models.ThemeTypeCustom, Config: `{}`})
	db.Create(&models.Theme{UserID: bob.ID, Name: "Theirs", Type: models.ThemeTypeCustom, Config: `{}`})

	req, _ := http.NewRequest("GET", "/api/themes", nil)
	req.Header.Set("Authorization", getAuthHeader(alice))
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var themes []ThemeResponse
	json.Unmarshal(resp.Body.Bytes(), &themes)

	if len(themes) != 2 {
		t.Fatalf("Expected 2 themes (builtin + own custom), got %d", len(themes))
	}
	for _, theme := range themes {
		if theme.Name == "Theirs" {
			t.Error("Another user's custom theme should not be listed")
		}
	}
}

func TestCreateCustomTheme(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "alice")

	body := CreateThemeRequest{
		Name:   "Neon",
		Config: json.RawMessage(`{"background":"#00ff00","text":"#000000"}`),
	}
	jsonBody, _ := json.Marshal(body)

	req, _ := http.NewRequest("POST", "/api/themes", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var theme ThemeResponse
	json.Unmarshal(resp.Body.Bytes(), &theme)

	if theme.Type != models.ThemeTypeCustom {
		t.Errorf("Expected custom theme, got %s", theme.Type)
	}
	if theme.Name != "Neon" {
		t.Errorf("Expected name Neon, got %s", theme.Name)
	}
}

func TestCreateThemeMissingConfig(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "alice")

	jsonBody := []byte(`{"name":"No Config"}`)
	req, _ := http.NewRequest("POST", "/api/themes", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}
}

func TestDeleteCustomTheme(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "alice")

	theme := models.Theme{UserID: user.ID, Name: "Mine", Type: models.ThemeTypeCustom, Config: `{}`}
	db.Create(&theme)

	req, _ := http.NewRequest("DELETE", "/api/themes/"+theme.ID, nil)
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", resp.Code)
	}

	var count int64
	db.Model(&models.Theme{}).Where("id = ?", theme.ID).Count(&count)
	if count != 0 {
		t.Error("Expected theme to be deleted")
	}
}

func TestDeleteBuiltinThemeRejected(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "alice")

	theme := createBuiltinTheme(t, db, "Classic")

	req, _ := http.NewRequest("DELETE", "/api/themes/"+theme.ID, nil)
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.Code)
	}
}

func TestDeleteOtherUsersTheme(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	theme := models.Theme{UserID: alice.ID, Name: "Mine", Type: models.ThemeTypeCustom, Config: `{}`}
	db.Create(&theme)

	req, _ := http.NewRequest("DELETE", "/api/themes/"+theme.ID, nil)
	req.Header.Set("Authorization", getAuthHeader(bob))
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.Code)
	}
}
