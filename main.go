// main.go
package main

import (
	"log"
	"os"
	"time"

	"taskflow/database"
	"taskflow/handlers"
	"taskflow/middleware"
	"taskflow/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	validateEnvironment()

	// Initialize database
	database.InitDB()
	defer func() {
		if err := database.CloseDB(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Wire handlers to the database
	handlers.Init()

	// Background invitation cleanup
	services.InitCleanupService()
	defer func() {
		if cleanupService := services.GetCleanupService(); cleanupService != nil {
			cleanupService.Stop()
		}
	}()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	// Apply rate limiting to all routes
	app.Use(middleware.RateLimitMiddleware())

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRateLimitMiddleware())
	authGroup.Post("/register", handlers.Register)
	authGroup.Post("/login", handlers.Login)
	authGroup.Post("/refresh", handlers.RefreshToken)
	authGroup.Get("/me", middleware.AuthMiddleware, handlers.GetMe)
	authGroup.Put("/profile", middleware.AuthMiddleware, handlers.UpdateProfile)

	// Team routes
	teamGroup := api.Group("/teams")
	teamGroup.Use(middleware.AuthMiddleware)
	teamGroup.Get("/", handlers.GetTeams)
	teamGroup.Post("/", handlers.CreateTeam)
	teamGroup.Get("/:id", handlers.GetTeam)
	teamGroup.Put("/:id", handlers.UpdateTeam)
	teamGroup.Delete("/:id", handlers.DeleteTeam)
	teamGroup.Post("/:id/members", handlers.AddMember)
	teamGroup.Delete("/:id/members/:userId", handlers.RemoveMember)
	teamGroup.Patch("/:id/members/:userId/role", handlers.UpdateMemberRole)

	// Project routes (columns and tasks of a project nest here)
	projectGroup := api.Group("/projects")
	projectGroup.Use(middleware.AuthMiddleware)
	projectGroup.Get("/", handlers.GetProjects)
	projectGroup.Post("/", handlers.CreateProject)
	projectGroup.Get("/:id", handlers.GetProject)
	projectGroup.Put("/:id", handlers.UpdateProject)
	projectGroup.Delete("/:id", handlers.DeleteProject)
	projectGroup.Get("/:projectId/columns", handlers.GetColumns)
	projectGroup.Post("/:projectId/columns", handlers.CreateColumn)
	projectGroup.Get("/:projectId/tasks", handlers.GetTasks)

	// Column routes (reorder before :id so it isn't shadowed)
	columnGroup := api.Group("/columns")
	columnGroup.Use(middleware.AuthMiddleware)
	columnGroup.Put("/reorder", handlers.ReorderColumns)
	columnGroup.Put("/:id", handlers.UpdateColumn)
	columnGroup.Delete("/:id", handlers.DeleteColumn)

	// Task routes
	taskGroup := api.Group("/tasks")
	taskGroup.Use(middleware.AuthMiddleware)
	taskGroup.Post("/", handlers.CreateTask)
	taskGroup.Put("/reorder", handlers.ReorderTasks)
	taskGroup.Get("/:id", handlers.GetTask)
	taskGroup.Put("/:id", handlers.UpdateTask)
	taskGroup.Delete("/:id", handlers.DeleteTask)
	taskGroup.Put("/:id/move", handlers.MoveTask)

	// Invitation routes
	inviteGroup := api.Group("/invites")
	inviteGroup.Use(middleware.AuthMiddleware)
	inviteGroup.Post("/", handlers.SendInvite)
	inviteGroup.Get("/", handlers.GetMyInvites)
	inviteGroup.Put("/:id/accept", handlers.AcceptInvite)
	inviteGroup.Put("/:id/reject", handlers.RejectInvite)

	// Live board events
	app.Get("/ws/projects/:id", middleware.WebSocketAuthMiddleware, handlers.BoardUpgrade, handlers.BoardSocket)

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	log.Printf("🚀 HTTP server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))
	log.Printf("🔐 JWT Secret configured: %v", os.Getenv("JWT_SECRET") != "")

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Println("WARNING: JWT_SECRET not set, using development default")
	} else if len(jwtSecret) < 32 {
		log.Println("WARNING: JWT_SECRET should be at least 32 characters long")
	}

	if os.Getenv("APP_ENV") == "production" {
		if os.Getenv("JWT_SECRET") == "" || os.Getenv("JWT_REFRESH_SECRET") == "" {
			log.Fatal("FATAL: JWT_SECRET and JWT_REFRESH_SECRET must be set in production. Generate with: openssl rand -base64 64")
		}
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"message": message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
