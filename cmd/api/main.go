package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/kiplagat/bookshop-api/internal/application/service"
	"github.com/kiplagat/bookshop-api/internal/config"
	"github.com/kiplagat/bookshop-api/internal/domain/pricing"
	"github.com/kiplagat/bookshop-api/internal/infrastructure/database"
	"github.com/kiplagat/bookshop-api/internal/infrastructure/repository"
	"github.com/kiplagat/bookshop-api/internal/presentation/http/handler"
	"github.com/kiplagat/bookshop-api/internal/presentation/http/routes"
	"github.com/kiplagat/bookshop-api/pkg/email"
	"github.com/kiplagat/bookshop-api/pkg/oauth"
	"github.com/kiplagat/bookshop-api/pkg/printer"
	"github.com/kiplagat/bookshop-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	bookRepo := repository.NewBookRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	supplyOrderRepo := repository.NewSupplyOrderRepository(db)
	supplierPaymentRepo := repository.NewSupplierPaymentRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	passwordResetRepo := repository.NewPasswordResetTokenRepository(db)

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
		FrontendURL:  cfg.Email.FrontendURL,
	})

	// Initialize Google OAuth service
	googleOAuthService := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:           cfg.OAuth.GoogleClientID,
		ClientSecret:       cfg.OAuth.GoogleClientSecret,
		RedirectURL:        cfg.OAuth.GoogleRedirectURL,
		FrontendSuccessURL: cfg.OAuth.FrontendSuccessURL,
		FrontendErrorURL:   cfg.OAuth.FrontendErrorURL,
	})

	// Checkout discount policy
	discountPolicy := pricing.DiscountPolicy{
		CashierPercentCeiling: cfg.Sales.DiscountCeiling,
		OverrideCode:          cfg.Sales.OverrideCode,
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, roleRepo, passwordResetRepo, jwtManager, emailService, googleOAuthService)
	bookService := service.NewBookService(bookRepo, supplierRepo)
	studentService := service.NewStudentService(studentRepo)
	saleService := service.NewSaleService(receiptRepo, bookRepo, studentRepo, emailService, discountPolicy)
	stockService := service.NewStockService(movementRepo, bookRepo)
	supplierService := service.NewSupplierService(supplierRepo, supplyOrderRepo, supplierPaymentRepo, bookRepo)
	dashboardService := service.NewDashboardService(analyticsRepo, bookRepo, studentRepo, supplierRepo, receiptRepo, supplyOrderRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	userService := service.NewUserService(userRepo, roleRepo, permissionRepo)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}
	printerService := service.NewPrinterService(thermalPrinter, receiptRepo, settingsRepo, cfg.Printer.Type)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Book:      handler.NewBookHandler(bookService),
		Student:   handler.NewStudentHandler(studentService),
		Sale:      handler.NewSaleHandler(saleService, userService),
		Stock:     handler.NewStockHandler(stockService, userService),
		Supplier:  handler.NewSupplierHandler(supplierService, userService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Settings:  handler.NewSettingsHandler(settingsService),
		User:      handler.NewUserHandler(userService),
		Printer:   handler.NewPrinterHandler(printerService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
