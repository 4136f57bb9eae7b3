// Package server contains the HTTP surface of the blog: routing,
// session handling, guards, and the handlers that compose the
// repositories and the contact mailer.
package server

import (
	"context"
	"log"
	"time"

	"inkwell/cache"
	"inkwell/config"
	"inkwell/database"
	"inkwell/mail"
	"inkwell/middleware"
	"inkwell/models"
	"inkwell/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ContactSender delivers contact-form submissions to the operator.
type ContactSender interface {
	Send(ctx context.Context, sub mail.Submission) error
}

// Server holds all dependencies and provides handlers
type Server struct {
	config   *config.Config
	db       *gorm.DB
	redis    *redis.Client
	users    repository.UserRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	mailer   ContactSender
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	rdb := cache.Connect(cfg.RedisURL)

	return newServer(cfg, db, rdb, mail.NewMailer(cfg)), nil
}

// newServer wires a Server from already-constructed dependencies.
func newServer(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailer ContactSender) *Server {
	return &Server{
		config:   cfg,
		db:       db,
		redis:    rdb,
		users:    repository.NewUserRepository(db),
		posts:    repository.NewPostRepository(db),
		comments: repository.NewCommentRepository(db),
		mailer:   mailer,
	}
}

// NewApp builds the Fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Inkwell Blog",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Request ID for tracing
	app.Use(requestid.New())

	// Structured logging middleware
	app.Use(middleware.StructuredLogger())

	// Resolve the session cookie into a principal for every request
	app.Use(s.WithCurrentUser())
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/", s.GetAllPosts)
	app.Get("/about", s.About)
	app.Get("/healthz", s.HealthCheck)

	app.Get("/register", s.ShowRegister)
	app.Post("/register", middleware.RateLimit(s.redis, 3, 10*time.Minute, "register"), s.Register)
	app.Get("/login", s.ShowLogin)
	app.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	app.Get("/logout", s.Logout)

	app.Get("/post/:id", s.ShowPost)
	app.Post("/post/:id", s.CreateComment)

	app.Get("/contact", s.ShowContact)
	app.Post("/contact", s.Contact)

	app.Get("/new-post", s.NewPostForm)
	app.Post("/new-post", s.CreatePost)
	app.Get("/edit-post/:id", s.EditPostForm)
	app.Post("/edit-post/:id", s.UpdatePost)
	app.Get("/delete/:id", s.DeletePost)
}

// About serves the static about blurb.
func (s *Server) About(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"title": "About",
		"body":  "A small blog: read posts, register to comment, say hello via the contact form.",
	})
}

// HealthCheck handles health check requests
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status": "ok",
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Shutdown gracefully releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
