package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/wearlab/tryon-backend/internal/config"
	"github.com/wearlab/tryon-backend/internal/database"
	"github.com/wearlab/tryon-backend/internal/handler"
	"github.com/wearlab/tryon-backend/internal/middleware"
	"github.com/wearlab/tryon-backend/internal/repository"
	"github.com/wearlab/tryon-backend/internal/service"
	"github.com/wearlab/tryon-backend/internal/storage"
	"github.com/wearlab/tryon-backend/internal/upstream"
	"github.com/wearlab/tryon-backend/pkg/logger"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.IsDevelopment()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.OpenAIAPIKey == "" {
		log.Fatal("Missing OPENAI_API_KEY in environment")
	}

	database.Connect(cfg)
	database.Migrate()

	// Repositories
	userRepo := repository.NewUserRepository(database.DB)
	tryonRepo := repository.NewTryOnRepository(database.DB)

	// Image archive and upstream clients
	archive := storage.NewArchive(database.DB, cfg.UploadDir)
	generator := upstream.NewOpenAIClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAITimeout)
	composer := upstream.NewTryOnClient(cfg.TryOnServiceURL, cfg.TryOnTimeout)

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	galleryService := service.NewGalleryService(userRepo, tryonRepo, cfg.BackendURL, cfg.UploadDir)
	tryonService := service.NewTryOnService(generator, composer, archive)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	galleryHandler := handler.NewGalleryHandler(galleryService)
	tryonHandler := handler.NewTryOnHandler(tryonService)
	adminHandler := handler.NewAdminHandler(authService)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// The frontend runs on a different origin.
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.HSTSMiddleware(!cfg.IsDevelopment()))
	router.Use(middleware.ErrorMapper())

	// Stored images are public once their URL is known.
	router.Static("/uploads", cfg.UploadDir)

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "Okay",
			"detail": "Fashion Virtual Backend is running",
		})
	})

	api := router.Group("/api")
	{
		api.POST("/signUp", authHandler.SignUp)
		api.POST("/login", authHandler.Login)
		api.GET("/me", authHandler.Me)
		api.GET("/gallery", galleryHandler.Gallery)

		tryOn := api.Group("/try-on")
		if limiter := buildRateLimiter(cfg); limiter != nil {
			tryOn.Use(limiter.Middleware())
		}
		tryOn.POST("", tryonHandler.TryOn)

		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(cfg.JWTSecret), middleware.AdminMiddleware())
		admin.GET("/users", adminHandler.GetAllUsers)
	}

	log.Printf("Server starting on %s", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildRateLimiter wires the redis-backed limiter for the try-on endpoint.
// Returns nil when REDIS_URL is not configured.
func buildRateLimiter(cfg *config.Config) *middleware.RateLimiter {
	if cfg.RedisURL == "" {
		return nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Invalid REDIS_URL: %v", err)
	}

	return middleware.NewRateLimiter(redis.NewClient(opt), middleware.RateLimiterConfig{
		MaxRequests: cfg.RateLimitMaxRequests,
		Window:      cfg.RateLimitWindow,
		BlockTime:   cfg.RateLimitBlockTime,
	})
}
