package app

import (
	"errors"
	"fmt"
	"time"

	"craftfolio_backend/database"
	"craftfolio_backend/internal/auth"
	"craftfolio_backend/internal/config"
	"craftfolio_backend/internal/email"
	"craftfolio_backend/internal/gateway/local"
	"craftfolio_backend/internal/handlers"
	"craftfolio_backend/internal/logger"
	"craftfolio_backend/internal/middleware"
	"craftfolio_backend/internal/models"
	"craftfolio_backend/internal/routes"
	"craftfolio_backend/internal/validator"
	"craftfolio_backend/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("AutoMigrate failed", "error", err)
	}
	logger.Info("AutoMigrate completed")

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	emailProvider := buildEmailProvider(cfg)

	backend := local.NewBackend(gormDB, local.Options{
		JWTSecret: cfg.JWT.Secret,
		TokenTTL:  time.Duration(cfg.JWT.TTL) * time.Minute,
		Email:     emailProvider,
	})

	appHandlers := initializeHandlers(cfg, emailProvider)

	wsManager := ws.NewManager()
	go wsManager.Run()
	wsHandler := ws.NewHandler(wsManager)

	ginRouter := initializeGinRouter(backend)
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler)
	return ginRouter
}

// buildEmailProvider собирает SMTP-провайдер; без настроек SMTP
// работает mock с логированием писем
func buildEmailProvider(cfg *config.Config) email.Provider {
	if cfg.Email.SMTPHost == "" {
		logger.Warn("SMTP не настроен, письма уходят в лог")
		return &email.MockProvider{}
	}

	provider, err := email.NewSMTPProvider(&email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	})
	if err != nil {
		logger.Warn("SMTP-провайдер не собрался, письма уходят в лог", "error", err)
		return &email.MockProvider{}
	}
	return provider
}

func initializeHandlers(cfg *config.Config, emailProvider email.Provider) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:        handlers.NewAuthHandler(baseHandler),
		ProfileHandler:     handlers.NewProfileHandler(baseHandler),
		PortfolioHandler:   handlers.NewPortfolioHandler(baseHandler),
		JobHandler:         handlers.NewJobHandler(baseHandler),
		ApplicationHandler: handlers.NewApplicationHandler(baseHandler),
		AdminHandler:       handlers.NewAdminHandler(baseHandler),
		ContactHandler:     handlers.NewContactHandler(baseHandler, emailProvider, cfg.FirstAdminEmail),
	}
}

func initializeGinRouter(backend *local.Backend) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.GatewayMiddleware(backend))
	return router
}

// seedFirstAdmin создает первого админа из переменных окружения.
// Регистрация через API роль admin не выдает, поэтому без сидинга
// админ-панель недостижима.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	var existing models.Profile
	result := db.Where("email = ?", adminEmail).First(&existing)
	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found. Creating first admin...", "email", adminEmail)

	hashedPassword, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.Profile{
		Email:        adminEmail,
		PasswordHash: hashedPassword,
		FullName:     "Administrator",
		Role:         models.UserRoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user in database: %w", err)
	}

	logger.Info("Successfully created first admin user", "email", adminEmail)
	return nil
}
