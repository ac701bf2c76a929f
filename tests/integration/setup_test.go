package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"siteledger/internal/handlers"
	"siteledger/internal/logger"
	"siteledger/internal/middleware"
	"siteledger/internal/models"
	"siteledger/internal/services"
	"siteledger/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integrationdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.ProjectBudgetSettings{},
		&models.Category{},
		&models.CashFlowEntry{},
		&models.PurchaseOrder{},
		&models.CategoryBudget{},
		&models.ContractItem{},
		&models.ProjectDocument{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	userService := services.NewUserService(db)
	projectService := services.NewProjectService(db)
	categoryService := services.NewCategoryService(db, projectService)
	cashFlowService := services.NewCashFlowService(db, projectService)
	orderService := services.NewPurchaseOrderService(db, projectService)
	budgetService := services.NewBudgetService(db, projectService)
	contractService := services.NewContractService(db, projectService)
	documentService := services.NewDocumentService(db, projectService)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	cashFlowHandler := handlers.NewCashFlowHandler(cashFlowService, auditService)
	orderHandler := handlers.NewPurchaseOrderHandler(orderService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	contractHandler := handlers.NewContractHandler(contractService, auditService)
	documentHandler := handlers.NewDocumentHandler(documentService, auditService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

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

	categories := protected.Group("/categories")
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	cashFlow := protected.Group("/cash-flow")
	cashFlow.GET("/:id", cashFlowHandler.GetEntry)
	cashFlow.PUT("/:id", cashFlowHandler.UpdateEntry)
	cashFlow.DELETE("/:id", cashFlowHandler.DeleteEntry)

	orders := protected.Group("/purchase-orders")
	orders.GET("/:id", orderHandler.GetOrder)
	orders.PUT("/:id", orderHandler.UpdateOrder)
	orders.DELETE("/:id", orderHandler.DeleteOrder)
	orders.POST("/:id/deliver", orderHandler.MarkDelivered)
	orders.POST("/:id/undeliver", orderHandler.UndoDelivered)
	orders.POST("/:id/pay", orderHandler.MarkPaid)
	orders.POST("/:id/unpay", orderHandler.UndoPaid)

	budgets := protected.Group("/budgets")
	budgets.PUT("/:id", budgetHandler.UpdateBudgetLine)
	budgets.DELETE("/:id", budgetHandler.DeleteBudgetLine)

	contracts := protected.Group("/contract-items")
	contracts.PUT("/:id", contractHandler.UpdateContractItem)
	contracts.DELETE("/:id", contractHandler.DeleteContractItem)

	documents := protected.Group("/documents")
	documents.GET("/:id", documentHandler.GetDocument)
	documents.DELETE("/:id", documentHandler.DeleteDocument)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the token and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (token string, userID float64) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"first_name":"Test","last_name":"User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(float64)
}

// createProject creates a project and returns its ID.
func (app *testApp) createProject(t *testing.T, token, name, system string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"system":%q}`, name, system)
	rec := app.request("POST", "/api/v1/projects", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create project failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	project := result["project"].(map[string]interface{})
	return project["id"].(float64)
}

// createCategory creates a category within a project and returns its ID.
func (app *testApp) createCategory(t *testing.T, token string, projectID float64, name string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q}`, name)
	rec := app.request("POST", fmt.Sprintf("/api/v1/projects/%.0f/categories", projectID), body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	category := result["category"].(map[string]interface{})
	return category["id"].(float64)
}
