package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"reviewhub/database"
	"reviewhub/internal/cache"
	"reviewhub/internal/config"
	"reviewhub/internal/httpapi/handler"
	"reviewhub/internal/httpapi/middleware"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/httpapi/service"
	"reviewhub/internal/mail"
	"reviewhub/internal/validate"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	// Redis backs the rating cache only; the API works without it.
	var rdb *redis.Client
	if opts, err := redis.ParseURL(cfg.RedisURL); err == nil {
		if cfg.RedisPassword != "" {
			opts.Password = cfg.RedisPassword
		}
		rdb = redis.NewClient(opts)
	} else {
		logger.Warn("invalid REDIS_URL, rating cache disabled", "error", err)
	}
	ratings := cache.NewRatingCache(rdb, cfg.RatingCacheTTL, logger)

	var sender mail.Sender
	if cfg.MailConfigured() {
		sender = mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPUser, cfg.SMTPPass, logger)
	} else {
		logger.Warn("SMTP not configured, confirmation codes are logged only")
		sender = &mail.LogSender{Logger: logger}
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	titleRepo := repository.NewTitleRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	validator := validate.New(userRepo, reviewRepo)

	// Services
	authService := service.NewAuthService(userRepo, validator, sender, logger, cfg)
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	genreService := service.NewGenreService(genreRepo)
	titleService := service.NewTitleService(titleRepo, categoryRepo, genreRepo, reviewRepo, ratings, validator)
	reviewService := service.NewReviewService(reviewRepo, titleRepo, ratings, validator)
	commentService := service.NewCommentService(commentRepo, reviewRepo)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	auth := api.Group("/auth", middleware.RateLimit(cfg.AuthRateLimit, cfg.AuthRateBurst))
	handler.NewAuthHandler(authService).RegisterRoutes(auth)

	users := api.Group("/users", middleware.RequireAuth(authService))
	handler.NewUserHandler(userService).RegisterRoutes(users)

	// Catalog routes resolve the actor when a token is present; reads
	// stay public and the permission evaluator handles the rest.
	categories := api.Group("/categories", middleware.OptionalAuth(authService))
	handler.NewCategoryHandler(categoryService).RegisterRoutes(categories)

	genres := api.Group("/genres", middleware.OptionalAuth(authService))
	handler.NewGenreHandler(genreService).RegisterRoutes(genres)

	titles := api.Group("/titles", middleware.OptionalAuth(authService))
	handler.NewTitleHandler(titleService).RegisterRoutes(titles)
	handler.NewReviewHandler(reviewService).RegisterRoutes(titles)
	handler.NewCommentHandler(commentService).RegisterRoutes(titles)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("starting api server", "addr", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
