package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/blockchaincyberpunk1/shelflife-backend/internal/auth"
	"github.com/blockchaincyberpunk1/shelflife-backend/internal/config"
	"github.com/blockchaincyberpunk1/shelflife-backend/internal/database"
	"github.com/blockchaincyberpunk1/shelflife-backend/internal/handlers"
	"github.com/blockchaincyberpunk1/shelflife-backend/internal/mail"
	"github.com/blockchaincyberpunk1/shelflife-backend/internal/middleware"
)

func main() {
	config.LoadEnv()
	setupLogging()

	if err := auth.EnsureJWTReady(); err != nil {
		logrus.Fatal("JWT configuration error: ", err)
	}

	database.InitDB()
	defer database.CloseDB()
	database.CreateTables()

	mailer := mail.NewSMTPMailerFromEnv()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())

	router.GET("/health", handlers.HealthCheck)

	api := router.Group("/api")
	api.GET("/status", handlers.Status)

	api.POST("/auth/signup", handlers.Signup)
	api.POST("/auth/login", handlers.Login)
	api.POST("/users/forgot-password", handlers.ForgotPassword(mailer))
	api.POST("/users/reset-password", handlers.ResetPassword)

	protected := api.Group("", middleware.AuthMiddleware())

	protected.GET("/users/profile", handlers.GetProfile)
	protected.PUT("/users/profile", handlers.UpdateProfile)
	protected.DELETE("/users/profile", handlers.DeleteProfile)
	protected.PUT("/users/password", handlers.ChangePassword)
	protected.GET("/users/settings", handlers.GetSettings)
	protected.PUT("/users/settings", handlers.UpdateSettings)

	protected.GET("/shelves", handlers.GetShelves)
	protected.POST("/shelves", handlers.CreateShelf)
	protected.GET("/shelves/:id", handlers.GetShelf)
	protected.PUT("/shelves/:id", handlers.UpdateShelf)
	protected.DELETE("/shelves/:id", handlers.DeleteShelf)
	protected.POST("/shelves/:id/books", handlers.AddShelfBook)
	protected.DELETE("/shelves/:id/books", handlers.RemoveShelfBook)

	protected.GET("/books", handlers.GetBooks)
	protected.POST("/books", handlers.CreateBook)
	protected.GET("/books/search", handlers.SearchBooks)
	protected.GET("/books/shelf/:shelfId", handlers.GetBooksByShelf)
	protected.GET("/books/:id", handlers.GetBook)
	protected.PUT("/books/:id", handlers.UpdateBook)
	protected.DELETE("/books/:id", handlers.DeleteBook)
	protected.POST("/books/:id/review", handlers.AddReview)

	// Shut the pool down cleanly on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-quit
		logrus.Infof("Received %s, shutting down", sig)
		database.CloseDB()
		os.Exit(0)
	}()

	addr := ":" + config.GetEnvOrDefault("PORT", "8080")
	logrus.Info("ShelfLife API starting on ", addr)
	if err := router.Run(addr); err != nil {
		logrus.Fatal("Server failed to start: ", err)
	}
}

func setupLogging() {
	if config.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(config.GetEnvOrDefault("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
