package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kiplagat/bookshop-api/internal/config"
	domainRepo "github.com/kiplagat/bookshop-api/internal/domain/repository"
	"github.com/kiplagat/bookshop-api/internal/presentation/http/handler"
	"github.com/kiplagat/bookshop-api/internal/presentation/http/middleware"
	"github.com/kiplagat/bookshop-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Book      *handler.BookHandler
	Student   *handler.StudentHandler
	Sale      *handler.SaleHandler
	Stock     *handler.StockHandler
	Supplier  *handler.SupplierHandler
	Dashboard *handler.DashboardHandler
	Settings  *handler.SettingsHandler
	User      *handler.UserHandler
	Printer   *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-user rate limiter
		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleAuth)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Settings
	protected.GET("/settings", h.Settings.GetSettings)
	protected.PUT("/settings", h.Settings.UpdateSettings)

	// Dashboard
	registerDashboardRoutes(protected, h)

	// Books
	registerBookRoutes(protected, h)

	// Students
	registerStudentRoutes(protected, h)

	// Sales
	registerSaleRoutes(protected, h, deps)

	// Stock
	registerStockRoutes(protected, h)

	// Suppliers
	registerSupplierRoutes(protected, h)

	// Users (Admin)
	registerUserRoutes(protected, h)

	// Roles (Admin)
	registerRoleRoutes(protected, h)

	// Permissions (Admin)
	registerPermissionRoutes(protected, h)

	// Printer
	registerPrinterRoutes(protected, h)
}

func registerDashboardRoutes(protected *gin.RouterGroup, h *Handlers) {
	dashboard := protected.Group("")
	dashboard.Use(middleware.RequirePermission("view-dashboard"))
	{
		dashboard.GET("/dashboard", h.Dashboard.GetStats)
	}

	reports := protected.Group("/reports")
	reports.Use(middleware.RequirePermission("view-reports"))
	{
		reports.GET("/sales", h.Dashboard.GetSalesReport)
	}
}

func registerBookRoutes(protected *gin.RouterGroup, h *Handlers) {
	books := protected.Group("/books")
	books.Use(middleware.RequirePermission("manage-books"))
	{
		books.GET("", h.Book.List)
		books.POST("", h.Book.Create)
		books.POST("/import", h.Book.Import)
		books.GET("/export", h.Book.Export)
		books.GET("/low-stock", h.Stock.LowStock)
		books.GET("/:slug", h.Book.Get)
		books.PUT("/:slug", h.Book.Update)
		books.DELETE("/:slug", h.Book.Delete)
	}
}

func registerStudentRoutes(protected *gin.RouterGroup, h *Handlers) {
	students := protected.Group("/students")
	students.Use(middleware.RequirePermission("manage-students"))
	{
		students.GET("", h.Student.List)
		students.POST("", h.Student.Create)
		students.GET("/:id", h.Student.Get)
		students.PUT("/:id", h.Student.Update)
		students.DELETE("/:id", h.Student.Delete)
		students.GET("/:id/sales", h.Sale.ListByStudent)
	}
}

func registerSaleRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	sales := protected.Group("/sales")
	sales.Use(middleware.RequirePermission("manage-sales"))
	{
		sales.GET("", h.Sale.List)
		// Checkout uses idempotency middleware so a retried request cannot
		// ring up the same cart twice
		sales.POST("", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Sale.Checkout)
		sales.GET("/export/csv", h.Sale.ExportCSV)
		sales.GET("/export/excel", h.Sale.ExportExcel)
		sales.GET("/:id", h.Sale.Get)
		sales.POST("/:id/resend", h.Sale.Resend)
	}
}

func registerStockRoutes(protected *gin.RouterGroup, h *Handlers) {
	stock := protected.Group("/stock")
	stock.Use(middleware.RequirePermission("manage-stock"))
	{
		stock.GET("/movements", h.Stock.List)
		stock.POST("/add", h.Stock.AddStock)
		stock.POST("/wastage", h.Stock.MarkWastage)
		stock.POST("/return", h.Stock.MarkReturn)
		stock.GET("/books/:id/history", h.Stock.History)
		stock.POST("/books/:id/recompute", h.Stock.Recompute)
	}
}

func registerSupplierRoutes(protected *gin.RouterGroup, h *Handlers) {
	suppliers := protected.Group("/suppliers")
	suppliers.Use(middleware.RequirePermission("manage-suppliers"))
	{
		suppliers.GET("", h.Supplier.List)
		suppliers.POST("", h.Supplier.Create)
		suppliers.GET("/orders", h.Supplier.ListOrders)
		suppliers.POST("/orders", h.Supplier.CreateOrder)
		suppliers.GET("/orders/overdue", h.Supplier.Overdue)
		suppliers.GET("/orders/upcoming", h.Supplier.Upcoming)
		suppliers.GET("/orders/:id", h.Supplier.GetOrder)
		suppliers.POST("/orders/:id/receive", h.Supplier.ReceiveOrder)
		suppliers.POST("/orders/:id/cancel", h.Supplier.CancelOrder)
		suppliers.GET("/:id", h.Supplier.Get)
		suppliers.PUT("/:id", h.Supplier.Update)
		suppliers.DELETE("/:id", h.Supplier.Delete)
		suppliers.GET("/:id/ledger", h.Supplier.Ledger)
		suppliers.POST("/:id/payments", h.Supplier.RecordPayment)
		suppliers.POST("/:id/recompute", h.Supplier.RecomputeBalance)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequirePermission("manage-users"))
	{
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id/roles", h.User.UpdateRoles)
		users.PUT("/:id/active", h.User.SetActive)
		users.DELETE("/:id", h.User.Delete)
	}
}

func registerRoleRoutes(protected *gin.RouterGroup, h *Handlers) {
	roles := protected.Group("/roles")
	roles.Use(middleware.RequirePermission("manage-users"))
	{
		roles.GET("", h.User.ListRoles)
	}
}

func registerPermissionRoutes(protected *gin.RouterGroup, h *Handlers) {
	permissions := protected.Group("/permissions")
	permissions.Use(middleware.RequirePermission("manage-users"))
	{
		permissions.GET("", h.User.ListPermissions)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printerGroup := protected.Group("/printer")
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/test", h.Printer.TestPrint)
		printerGroup.POST("/receipt", h.Printer.PrintReceipt)
	}
}
