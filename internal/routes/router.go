package routes

import (
	"net/http"

	"user-auth-service/internal/config"
	"user-auth-service/internal/delivery/http/handler"
	"user-auth-service/internal/infrastructure/database"
	"user-auth-service/internal/logger"
	"user-auth-service/internal/middleware"
	"user-auth-service/internal/usecase/user"
	"user-auth-service/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func SetupRoutes(cfg *config.Config, store database.Store, notifier user.Notifier) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Order: recovery, request ID, logging, security headers, CORS, request size limit
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(cfg.Server.MaxBodyBytes))

	router.GET("/health", func(c *gin.Context) {
		if err := store.Health(c.Request.Context()); err != nil {
			logger.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	tokens := utils.NewTokenIssuer(utils.TokenConfig{
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		ResetSecret:   cfg.JWT.ResetSecret,
		AccessTTL:     cfg.JWT.AccessExpiry,
		RefreshTTL:    cfg.JWT.RefreshExpiry,
		ResetTTL:      cfg.JWT.ResetExpiry,
	})

	userService := user.NewService(store, notifier, tokens, cfg)
	userHandler := handler.NewUserHandler(userService)

	v1 := router.Group("/api/v1")
	{
		userHandler.RegisterRoutes(v1, middleware.ResetTokenMiddleware(tokens))
	}

	logger.Info("All routes initialized")
	return router
}
