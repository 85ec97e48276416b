package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"inkwell/config"
	"inkwell/database"
	"inkwell/forms"
	"inkwell/middleware"
	"inkwell/render"
	"inkwell/routes"
	"inkwell/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := database.Initialize(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Seed database with sample data (optional - for development)
	if err := database.SeedData(db); err != nil {
		log.Printf("Warning: Failed to seed database: %v", err)
	}

	forms.RegisterValidators()

	if cfg.Port == "8080" { // Development
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestLogger())
	router.Use(middleware.SecurityHeaders())
	router.Use(gin.Recovery())

	if cfg.TemplateGlob != "" {
		router.LoadHTMLGlob(cfg.TemplateGlob)
	}

	var media services.MediaStore
	if cfg.Supabase.URL != "" {
		media = services.NewSupabaseStore(cfg.Supabase.URL, cfg.Supabase.Key, cfg.Supabase.Bucket)
	} else {
		media = services.NewDiskStore(cfg.Media.Dir)
	}

	email := services.NewEmailService(cfg)

	routes.SetupRoutes(router, db, cfg, render.HTMLRenderer{}, media, email)

	log.Printf("Starting Inkwell on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
