package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"inkwell/config"
	"inkwell/controllers"
	"inkwell/feed"
	"inkwell/middleware"
	"inkwell/render"
	"inkwell/services"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, rnd render.Renderer, media services.MediaStore, email *services.EmailService) {
	feeds := feed.NewService(db)

	postController := controllers.NewPostController(db, feeds, rnd, media, email)
	profileController := controllers.NewProfileController(db, feeds, rnd)
	groupController := controllers.NewGroupController(db, rnd)
	authController := controllers.NewAuthController(db, cfg.JWTSecret, rnd)

	r.Use(middleware.CurrentUser(db, cfg.JWTSecret))

	// Public pages
	r.GET("/", postController.Index)
	r.GET("/group/:slug/", postController.GroupPosts)
	r.GET("/profile/:username/", profileController.Profile)
	r.GET("/posts/:id/", postController.Detail)

	// Session
	auth := r.Group("/auth")
	{
		auth.GET("/signup/", authController.SignupPage)
		auth.POST("/signup/", authController.Signup)
		auth.GET("/login/", authController.LoginPage)
		auth.POST("/login/", authController.Login)
		auth.GET("/logout/", authController.Logout)
	}

	// Login-required pages
	loggedIn := r.Group("")
	loggedIn.Use(middleware.LoginRequired("/auth/login/"))
	{
		loggedIn.GET("/create/", postController.CreatePage)
		loggedIn.POST("/create/", postController.Create)
		loggedIn.GET("/posts/:id/edit/", postController.EditPage)
		loggedIn.POST("/posts/:id/edit/", postController.Edit)
		loggedIn.POST("/posts/:id/comment/", postController.AddComment)
		loggedIn.GET("/follow/", postController.FollowFeed)
		loggedIn.GET("/profile/:username/follow/", profileController.Follow)
		loggedIn.GET("/profile/:username/unfollow/", profileController.Unfollow)
		loggedIn.GET("/group/create/", groupController.CreatePage)
		loggedIn.POST("/group/create/", groupController.Create)
		loggedIn.POST("/settings/delete/", authController.DeleteAccount)
	}

	// Uploaded images, when stored on disk
	if cfg.Media.Dir != "" && cfg.Supabase.URL == "" {
		r.Static("/media", cfg.Media.Dir)
	}

	r.NoRoute(func(c *gin.Context) {
		rnd.HTML(c, http.StatusNotFound, "404", gin.H{})
	})
}
