package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/knagano/todolist-api/internal/config"
	"github.com/knagano/todolist-api/internal/database"
	"github.com/knagano/todolist-api/internal/handlers"
	"github.com/knagano/todolist-api/internal/middleware"
	"github.com/knagano/todolist-api/internal/repository"
	"github.com/knagano/todolist-api/internal/services"
	"github.com/knagano/todolist-api/internal/token"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Session credentials are self-contained signed tokens; there is no
	// server-side session store.
	tokens := token.NewManager(token.Config{
		SecretKey: cfg.JWTSecret,
		Issuer:    "todolist-api",
	})
	isProduction := cfg.GinMode == "release"

	// Initialize AI service
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	// Wire repositories and services
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	authService := services.NewAuthService(userRepo)
	taskService := services.NewTaskService(taskRepo, userRepo, aiService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, tokens, cfg.CookieName, isProduction)
	taskHandler := handlers.NewTaskHandler(taskService)
	accountHandler := handlers.NewAccountHandler(taskService)

	// Initialize Gin router
	r := gin.Default()
	r.Use(middleware.RequestID())

	// Health check endpoint
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	requireAuth := middleware.RequireAuth(tokens, cfg.CookieName)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/signin", authHandler.Signin)
			auth.POST("/signout", authHandler.Signout)
		}

		// Account routes (protected)
		api.GET("/account", requireAuth, accountHandler.GetSummary)

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/suggest", taskHandler.SuggestTasks)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}
	}

	// Start server
	addr := ":" + cfg.Port
	log.Printf("Server starting on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
