// @title GoTours API
// @version 1.0
// @description Tour booking API with server-rendered pages.
// @BasePath /api/v1
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	docs "github.com/xyz-asif/gotours/docs"
	"github.com/xyz-asif/gotours/internal/config"
	"github.com/xyz-asif/gotours/internal/database"
	"github.com/xyz-asif/gotours/internal/middleware"
	"github.com/xyz-asif/gotours/internal/pkg/email"
	"github.com/xyz-asif/gotours/internal/pkg/media"
	"github.com/xyz-asif/gotours/internal/pkg/payment"
	"github.com/xyz-asif/gotours/internal/pkg/ratelimit"
	"github.com/xyz-asif/gotours/internal/routes"
)

func main() {
	cfg := config.Load()

	docs.SwaggerInfo.Title = "GoTours API"
	docs.SwaggerInfo.Description = "Tour booking API with server-rendered pages"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:" + cfg.Port
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http"}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if !cfg.IsProduction() {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	db, err := database.Connect(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}

	resizer, err := media.NewService(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryUploadFolder)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize media service")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.ErrorHandler(cfg, logger))

	// The API surface is rate limited per client IP; rendered pages and
	// static assets are not.
	limiter := ratelimit.New(cfg.RateLimitMax, cfg.RateLimitWindow)
	limiter.StartCleanup(5 * time.Minute)
	limit := ratelimit.Middleware(limiter)
	router.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			limit(c)
			return
		}
		c.Next()
	})

	router.LoadHTMLGlob("web/templates/*.html")
	router.Static("/static", "./web/static")

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.Setup(router, routes.Deps{
		DB:       db.Database,
		Config:   cfg,
		Logger:   logger,
		Mailer:   email.NewMailer(cfg),
		Resizer:  resizer,
		Payments: payment.NewStripeProvider(cfg.StripeSecretKey),
	})

	router.NoRoute(middleware.NotFound())

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}
	if err := db.Disconnect(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to disconnect from MongoDB")
	}

	logger.Info().Msg("server stopped")
}
