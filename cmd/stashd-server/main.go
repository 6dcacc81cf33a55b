package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stashd/stashd/pkg/stashd/auth"
	"github.com/stashd/stashd/pkg/stashd/config"
	"github.com/stashd/stashd/pkg/stashd/database"
	"github.com/stashd/stashd/pkg/stashd/groups"
	"github.com/stashd/stashd/pkg/stashd/identity"
	"github.com/stashd/stashd/pkg/stashd/items"
	"github.com/stashd/stashd/pkg/stashd/logger"
	"github.com/stashd/stashd/pkg/stashd/models"
	"github.com/stashd/stashd/pkg/stashd/notepads"
	"github.com/stashd/stashd/pkg/stashd/users"
)

func main() {
	options := config.Parse()

	zapLogger, err := logger.New()
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	if err := database.Connect(options.DBPath); err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := models.AutoMigrate(database.GetDB()); err != nil {
		zapLogger.Fatal("failed to run migrations", zap.Error(err))
	}
	zapLogger.Info("database migrations completed")

	db := database.GetDB()

	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// Auth routes (public)
		authHandler := auth.NewHandler(db)
		authHandler.RegisterRoutes(api.Group("/auth"))

		// Everything below resolves an Identity first, via session JWT
		// or API access token.
		protected := api.Group("", identity.Middleware(db))

		usersHandler := users.NewHandler(db)
		usersHandler.RegisterRoutes(protected)

		groupsHandler := groups.NewHandler(db, zapLogger)
		groupsHandler.RegisterRoutes(protected)

		itemsHandler := items.NewHandler(db, zapLogger)
		itemsHandler.RegisterRoutes(protected)

		notepadsHandler := notepads.NewHandler(db)
		notepadsHandler.RegisterRoutes(protected)
	}

	zapLogger.Info("starting stashd server", zap.String("addr", options.Addr))
	if err := r.Run(options.Addr); err != nil {
		zapLogger.Fatal("server exited", zap.Error(err))
	}
}
