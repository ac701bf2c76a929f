package main

import (
	"fmt"
	"net/http"
	"os"

	"siteledger/internal/config"
	"siteledger/internal/database"
	"siteledger/internal/handlers"
	"siteledger/internal/logger"
	"siteledger/internal/middleware"
	"siteledger/internal/services"
	"siteledger/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "siteledger/internal/docs" // Import swagger docs
)

// @title           SiteLedger API
// @version         1.0
// @description     SiteLedger is a construction project management backend covering project dashboards, cash-flow ledgers, budget and financial tracking, purchase orders, and a tagged document registry.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	projectService := services.NewProjectService(db)
	categoryService := services.NewCategoryService(db, projectService)
	cashFlowService := services.NewCashFlowService(db, projectService)
	orderService := services.NewPurchaseOrderService(db, projectService)
	budgetService := services.NewBudgetService(db, projectService)
	contractService := services.NewContractService(db, projectService)
	documentService := services.NewDocumentService(db, projectService)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	cashFlowHandler := handlers.NewCashFlowHandler(cashFlowService, auditService)
	orderHandler := handlers.NewPurchaseOrderHandler(orderService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	contractHandler := handlers.NewContractHandler(contractService, auditService)
	documentHandler := handlers.NewDocumentHandler(documentService, auditService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Project routes and project-scoped sub-resources
	projects := protected.Group("/projects")
	projects.POST("", projectHandler.CreateProject)
	projects.GET("", projectHandler.GetProjects)
	projects.GET("/:id", projectHandler.GetProject)
	projects.PUT("/:id", projectHandler.UpdateProject)
	projects.DELETE("/:id", projectHandler.DeleteProject)
	projects.GET("/:id/dashboard", projectHandler.GetDashboard)
	projects.POST("/:id/members", projectHandler.AddMember)
	projects.DELETE("/:id/members/:member_id", projectHandler.RemoveMember)
	projects.POST("/:id/categories", categoryHandler.CreateCategory)
	projects.GET("/:id/categories", categoryHandler.GetCategories)
	projects.POST("/:id/cash-flow", cashFlowHandler.CreateEntry)
	projects.GET("/:id/cash-flow", cashFlowHandler.GetEntries)
	projects.POST("/:id/purchase-orders", orderHandler.CreateOrder)
	projects.GET("/:id/purchase-orders", orderHandler.GetOrders)
	projects.POST("/:id/budgets", budgetHandler.CreateBudgetLine)
	projects.GET("/:id/budgets", budgetHandler.GetBudgetLines)
	projects.GET("/:id/budgets/rollup", budgetHandler.GetRollup)
	projects.GET("/:id/budget-settings", budgetHandler.GetSettings)
	projects.PUT("/:id/budget-settings", budgetHandler.UpdateSettings)
	projects.POST("/:id/contract-items", contractHandler.CreateContractItem)
	projects.GET("/:id/contract-items", contractHandler.GetContractItems)
	projects.GET("/:id/financials", contractHandler.GetFinancials)
	projects.POST("/:id/documents", documentHandler.RegisterDocument)
	projects.GET("/:id/documents", documentHandler.GetDocuments)

	// Category routes
	categories := protected.Group("/categories")
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Cash-flow entry routes
	cashFlow := protected.Group("/cash-flow")
	cashFlow.GET("/:id", cashFlowHandler.GetEntry)
	cashFlow.PUT("/:id", cashFlowHandler.UpdateEntry)
	cashFlow.DELETE("/:id", cashFlowHandler.DeleteEntry)

	// Purchase order routes
	orders := protected.Group("/purchase-orders")
	orders.GET("/:id", orderHandler.GetOrder)
	orders.PUT("/:id", orderHandler.UpdateOrder)
	orders.DELETE("/:id", orderHandler.DeleteOrder)
	orders.POST("/:id/deliver", orderHandler.MarkDelivered)
	orders.POST("/:id/undeliver", orderHandler.UndoDelivered)
	orders.POST("/:id/pay", orderHandler.MarkPaid)
	orders.POST("/:id/unpay", orderHandler.UndoPaid)

	// Budget line routes
	budgets := protected.Group("/budgets")
	budgets.PUT("/:id", budgetHandler.UpdateBudgetLine)
	budgets.DELETE("/:id", budgetHandler.DeleteBudgetLine)

	// Contract item routes
	contracts := protected.Group("/contract-items")
	contracts.PUT("/:id", contractHandler.UpdateContractItem)
	contracts.DELETE("/:id", contractHandler.DeleteContractItem)

	// Document routes
	documents := protected.Group("/documents")
	documents.GET("/:id", documentHandler.GetDocument)
	documents.DELETE("/:id", documentHandler.DeleteDocument)

	log.Infof("Starting SiteLedger backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
