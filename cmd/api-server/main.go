package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"vinoteca/database"
	"vinoteca/internal/config"
	"vinoteca/internal/http-api/handler"
	"vinoteca/internal/http-api/middleware"
	"vinoteca/internal/http-api/repository"
	"vinoteca/internal/http-api/service"
	"vinoteca/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	setupLogging(cfg)

	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	blobStore, err := storage.NewLocalStore(cfg.UploadDir, cfg.UploadBaseURL, cfg.UploadMaxSize)
	if err != nil {
		log.Fatalf("could not init upload storage: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	cardRepo := repository.NewCardRepo(db)
	ratingRepo := repository.NewRatingRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, cardRepo, favoriteRepo, cfg)
	cardService := service.NewCardService(cardRepo, favoriteRepo)
	ratingService := service.NewRatingService(ratingRepo, cardRepo, favoriteRepo)
	commentService := service.NewCommentService(commentRepo, cardRepo)
	favoriteService := service.NewFavoriteService(favoriteRepo, cardRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	cardHandler := handler.NewCardHandler(cardService, ratingService, blobStore)
	commentHandler := handler.NewCommentHandler(commentService)
	favoriteHandler := handler.NewFavoriteHandler(favoriteService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	if cfg.RateLimitPerSec > 0 {
		r.Use(middleware.RateLimit(buildLimiter(cfg)))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.Static(cfg.UploadBaseURL, blobStore.Dir())

	requireAuth := middleware.AuthMiddleware(authService)
	optionalAuth := middleware.OptionalAuthMiddleware(authService)

	api := r.Group("/api")
	authHandler.RegisterRoutes(api, requireAuth)
	cardHandler.RegisterRoutes(api, requireAuth, optionalAuth)
	commentHandler.RegisterRoutes(api, requireAuth)
	favoriteHandler.RegisterRoutes(api, requireAuth, optionalAuth)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	log.WithField("addr", addr).Info("starting API server")
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func setupLogging(cfg *config.Config) {
	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func buildLimiter(cfg *config.Config) middleware.ClientLimiter {
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		log.WithField("addr", cfg.RedisAddr).Info("rate limiting backed by redis")
		return middleware.NewRedisLimiter(client, cfg.RateLimitPerSec)
	}
	log.Info("rate limiting backed by in-memory buckets")
	return middleware.NewMemoryLimiter(cfg.RateLimitPerSec)
}
