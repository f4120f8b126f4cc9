package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mscofield999-cyber/meetingminutes/config"
	"github.com/mscofield999-cyber/meetingminutes/handler"
	"github.com/mscofield999-cyber/meetingminutes/middleware"
	"github.com/mscofield999-cyber/meetingminutes/pkg/logger"
	"github.com/mscofield999-cyber/meetingminutes/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	// Initialize the meeting store
	store, err := newStore(cfg)
	if err != nil {
		slog.Error("failed to initialize meeting store", "error", err)
		os.Exit(1)
	}
	service.InitMeetingStore(store)

	// Optional archive of approved minutes
	var archive *service.ArchiveService
	if cfg.Archive.Enabled {
		archive, err = service.NewArchiveService(&cfg.Archive)
		if err != nil {
			slog.Error("failed to initialize archive service", "error", err)
			os.Exit(1)
		}
		if err := archive.EnsureBucket(context.Background()); err != nil {
			slog.Error("failed to ensure archive bucket", "error", err)
			os.Exit(1)
		}
	}

	meetingSvc := service.NewMeetingService(service.GetMeetingStore(), archive)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(cfg)
	meetingHandler := handler.NewMeetingHandler(meetingSvc)
	proxyHandler := handler.NewProxyHandler(&cfg.Proxy)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Add custom middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(corsMiddleware())
	router.Use(cacheMiddleware())
	router.Use(middleware.RateLimit(100, time.Minute))

	// Unrecognized methods on known paths get an empty 405
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.Status(http.StatusMethodNotAllowed)
	})

	// Serve the static front-end when it is deployed alongside
	staticDir := "./public"
	if _, err := os.Stat(staticDir + "/index.html"); err == nil {
		slog.Info("serving static files", "directory", staticDir)
		router.StaticFile("/", staticDir+"/index.html")
		router.StaticFile("/index.html", staticDir+"/index.html")
		router.StaticFile("/app.js", staticDir+"/app.js")
		router.StaticFile("/styles.css", staticDir+"/styles.css")
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Public routes
	api := router.Group("/api")
	{
		api.POST("/login", authHandler.Login)
		api.POST("/logout", authHandler.Logout)
		api.GET("/check-auth", authHandler.CheckAuth)
		api.GET("/env-check", authHandler.EnvCheck)
	}

	// Protected routes
	meetings := api.Group("/meetings")
	meetings.Use(middleware.RequireAuth(&cfg.Session))
	{
		meetings.GET("", meetingHandler.List)
		meetings.POST("", meetingHandler.Create)
		meetings.GET("/:id", meetingHandler.Get)
		meetings.PUT("/:id", meetingHandler.Update)
	}

	// Everything else under /api is relayed to the separate backend
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			proxyHandler.Forward(c)
			return
		}
		c.Status(http.StatusNotFound)
	})

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

// newStore builds the meeting store selected by configuration.
func newStore(cfg *config.Config) (service.MeetingStore, error) {
	switch cfg.Store.Driver {
	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return service.NewMongoStore(ctx, &cfg.Store)
	default:
		return service.NewMemoryStore(), nil
	}
}

// corsMiddleware handles CORS headers. The origin is echoed back rather
// than wildcarded because the session cookie is a credential.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// cacheMiddleware sets cache control headers for static files
func cacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		// Skip caching for API routes
		if strings.HasPrefix(path, "/api") {
			c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
			return
		}

		// Set cache headers for static files (1 hour)
		if strings.HasSuffix(path, ".js") ||
			strings.HasSuffix(path, ".css") ||
			strings.HasSuffix(path, ".html") ||
			path == "/" {
			c.Header("Cache-Control", "public, max-age=3600, must-revalidate")
		}

		c.Next()
	}
}
