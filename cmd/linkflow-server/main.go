package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/linkflowhq/linkflow/pkg/linkflow/analytics"
	"github.com/linkflowhq/linkflow/pkg/linkflow/auth"
	"github.com/linkflowhq/linkflow/pkg/linkflow/database"
	"github.com/linkflowhq/linkflow/pkg/linkflow/links"
	"github.com/linkflowhq/linkflow/pkg/linkflow/models"
	"github.com/linkflowhq/linkflow/pkg/linkflow/profile"
	"github.com/linkflowhq/linkflow/pkg/linkflow/subscribers"
	"github.com/linkflowhq/linkflow/pkg/linkflow/themes"
	"github.com/linkflowhq/linkflow/pkg/linkflow/tools"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "github.com/linkflowhq/linkflow/api/swagger"
)

// @title Linkflow API
// @version 1.0
// @description A link-in-bio platform: ordered links, public profile pages, themes, subscribers, and analytics.

// @contact.name Linkflow Support
// @contact.url https://github.com/linkflowhq/linkflow

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token. Format: "Bearer {token}"

func main() {
	// Optional .env for local development
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	dbPath := os.Getenv("LINKFLOW_DB_PATH")
	if dbPath == "" {
		dbPath = "linkflow.db"
	}

	// The handle is opened once here and injected everywhere; no package
	// holds a global connection.
	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	if err := ensureBuiltinThemes(db); err != nil {
		log.Fatalf("Failed to seed builtin themes: %v", err)
	}

	linkService := links.NewService(db)

	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"service": "linkflow",
			})
		})

		// Auth routes (public)
		authHandler := auth.NewHandler(db)
		authHandler.RegisterRoutes(api.Group("/auth"))

		// Public routes: profile pages, subscribe, event tracking
		profileHandler := profile.NewHandler(db, linkService)
		profileHandler.RegisterPublicRoutes(api.Group(""))

		subscribersHandler := subscribers.NewHandler(db)
		subscribersHandler.RegisterPublicRoutes(api.Group(""))

		analyticsHandler := analytics.NewHandler(db)
		analyticsHandler.RegisterRoutes(api.Group(""))

		// Authenticated routes
		authed := api.Group("", auth.AuthMiddleware())

		linksHandler := links.NewHandler(linkService)
		linksHandler.RegisterRoutes(authed)

		profileHandler.RegisterRoutes(authed)

		themesHandler := themes.NewHandler(db)
		themesHandler.RegisterRoutes(authed)

		subscribersHandler.RegisterRoutes(authed)

		toolsHandler := tools.NewHandler(tools.NewRegistry(db, linkService))
		toolsHandler.RegisterRoutes(authed)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting linkflow server on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// ensureBuiltinThemes seeds the shipped themes on first boot. Existing rows
// are left alone so upgrades never clobber operator edits.
func ensureBuiltinThemes(db *gorm.DB) error {
	builtins := []models.Theme{
		{Name: "Classic", Type: models.ThemeTypeBuiltin, Config: `{"background":"#ffffff","text":"#111111","button":"solid"}`},
		{Name: "Midnight", Type: models.ThemeTypeBuiltin, Config: `{"background":"#0f172a","text":"#f8fafc","button":"outline"}`},
		{Name: "Sunset", Type: models.ThemeTypeBuiltin, Config: `{"background":"linear-gradient(#f97316,#db2777)","text":"#ffffff","button":"soft"}`},
	}

	for _, theme := range builtins {
		var count int64
		if err := db.Model(&models.Theme{}).
			Where("name = ? AND type = ?", theme.Name, models.ThemeTypeBuiltin).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&theme).Error; err != nil {
			return err
		}
		log.Printf("Seeded builtin theme: %s", theme.Name)
	}
	return nil
}
