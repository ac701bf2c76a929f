package services

import (
	"time"

	"siteledger/internal/budget"
	"siteledger/internal/models"
	"siteledger/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName, phone string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// ProjectDashboard aggregates a project's money position for the
// dashboard view. Recomputed from stored rows on every call.
type ProjectDashboard struct {
	ProjectID       uint                  `json:"project_id"`
	TotalIncome     int64                 `json:"total_income"`
	TotalExpenses   int64                 `json:"total_expenses"`
	PendingExpenses int64                 `json:"pending_expenses"`
	OpenOrderCount  int64                 `json:"open_order_count"`
	CommittedAmount int64                 `json:"committed_amount"`
	CategoryStatus  map[budget.Status]int `json:"category_status_counts"`
}

// ProjectServicer defines the contract for project-related business logic.
type ProjectServicer interface {
	CreateProject(ownerID uint, name, description, address string, system models.TrackingSystem, currency string) (*models.Project, error)
	GetUserProjects(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Project], error)
	GetProjectByID(userID, projectID uint) (*models.Project, error)
	UpdateProject(userID, projectID uint, name, description, address string) (*models.Project, error)
	DeleteProject(userID, projectID uint) error
	AddMember(userID, projectID, memberUserID uint, role models.MemberRole, phone string) (*models.ProjectMember, error)
	RemoveMember(userID, projectID, memberID uint) error
	AuthorizeAccess(userID, projectID uint) error
	GetDashboard(userID, projectID uint) (*ProjectDashboard, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, projectID uint, name, description string) (*models.Category, error)
	GetProjectCategories(userID, projectID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID uint) (*models.Category, error)
	UpdateCategory(userID, categoryID uint, name, description string) (*models.Category, error)
	DeleteCategory(userID, categoryID uint) error
}

// CashFlowFilter holds optional filter parameters for listing ledger entries.
type CashFlowFilter struct {
	Type       *models.CashFlowType
	Status     *models.CashFlowStatus
	CategoryID *uint
	FromDate   *time.Time
	ToDate     *time.Time
}

// CashFlowServicer defines the contract for ledger-related business logic.
type CashFlowServicer interface {
	CreateEntry(userID, projectID uint, categoryID *uint, entryType models.CashFlowType, status models.CashFlowStatus, amount int64, description string, date time.Time, notes string) (*models.CashFlowEntry, error)
	GetProjectEntries(userID, projectID uint, page pagination.PageRequest, filter CashFlowFilter) (*pagination.PageResponse[models.CashFlowEntry], error)
	GetEntryByID(userID, entryID uint) (*models.CashFlowEntry, error)
	UpdateEntry(userID, entryID uint, categoryID *uint, status *models.CashFlowStatus, amount *int64, description string, date *time.Time, notes *string) (*models.CashFlowEntry, error)
	DeleteEntry(userID, entryID uint) error
}

// CreateOrderInput holds the fields for creating a purchase order.
type CreateOrderInput struct {
	ProjectID            uint
	CategoryID           uint
	SupplierName         string
	PONumber             string
	Description          string
	TotalAmount          int64
	ExpectedDeliveryDate *time.Time

	// Set when the order is recorded as already paid at creation time.
	Paid             bool
	PaymentMethod    models.PaymentMethod
	PaymentReference string
}

// UpdateOrderInput holds the optional commercial fields for updating an order.
type UpdateOrderInput struct {
	SupplierName         string
	PONumber             *string
	Description          *string
	TotalAmount          *int64
	ExpectedDeliveryDate *time.Time
}

// OrderFilter holds optional filter parameters for listing purchase orders.
type OrderFilter struct {
	CategoryID     *uint
	DeliveryStatus *models.DeliveryStatus
	PaymentStatus  *models.PaymentStatus
}

// PurchaseOrderServicer defines the contract for the purchase order lifecycle.
type PurchaseOrderServicer interface {
	CreateOrder(userID uint, in CreateOrderInput) (*models.PurchaseOrder, error)
	GetProjectOrders(userID, projectID uint, page pagination.PageRequest, filter OrderFilter) (*pagination.PageResponse[models.PurchaseOrder], error)
	GetOrderByID(userID, orderID uint) (*models.PurchaseOrder, error)
	UpdateOrder(userID, orderID uint, in UpdateOrderInput) (*models.PurchaseOrder, error)
	MarkDelivered(userID, orderID uint) (*models.PurchaseOrder, error)
	UndoDelivered(userID, orderID uint) (*models.PurchaseOrder, error)
	MarkPaid(userID, orderID uint, method models.PaymentMethod, reference string) (*models.PurchaseOrder, error)
	UndoPaid(userID, orderID uint) (*models.PurchaseOrder, error)
	DeleteOrder(userID, orderID uint) (detachedEntry bool, err error)
}

// ProjectRollup is the full budget exposure picture for a project.
type ProjectRollup struct {
	ProjectID  uint                    `json:"project_id"`
	Categories []budget.CategoryRollup `json:"categories"`
	Totals     budget.Totals           `json:"totals"`
}

// BudgetServicer defines the contract for v1 budget lines, settings,
// and the committed-cost rollup.
type BudgetServicer interface {
	CreateBudgetLine(userID, projectID, categoryID uint, budgetedAmount int64) (*models.CategoryBudget, error)
	GetBudgetLines(userID, projectID uint) ([]models.CategoryBudget, error)
	UpdateBudgetLine(userID, lineID uint, budgetedAmount int64) (*models.CategoryBudget, error)
	DeleteBudgetLine(userID, lineID uint) error
	GetSettings(userID, projectID uint) (*models.ProjectBudgetSettings, error)
	UpdateSettings(userID, projectID uint, system models.TrackingSystem, currency string) (*models.ProjectBudgetSettings, error)
	GetProjectRollup(userID, projectID uint, categoryID *uint) (*ProjectRollup, error)
}

// ContractItemSummary is a v2 contract line with its derived financials.
type ContractItemSummary struct {
	ItemID         uint          `json:"item_id"`
	CategoryID     uint          `json:"category_id"`
	CategoryName   string        `json:"category_name"`
	ContractAmount int64         `json:"contract_amount"`
	ActualExpenses int64         `json:"actual_expenses"`
	ReceivedIncome int64         `json:"received_income"`
	ExpectedProfit int64         `json:"expected_profit"`
	PctUsed        float64       `json:"percentage_used"`
	Status         budget.Status `json:"status"`
}

// ProjectFinancials is the v2 per-project profit view.
type ProjectFinancials struct {
	ProjectID      uint                  `json:"project_id"`
	Items          []ContractItemSummary `json:"items"`
	ContractTotal  int64                 `json:"contract_total"`
	ExpenseTotal   int64                 `json:"expense_total"`
	IncomeTotal    int64                 `json:"income_total"`
	ExpectedProfit int64                 `json:"expected_profit"`
}

// ContractServicer defines the contract for v2 financials business logic.
type ContractServicer interface {
	CreateContractItem(userID, projectID, categoryID uint, contractAmount int64) (*models.ContractItem, error)
	GetContractItems(userID, projectID uint) ([]models.ContractItem, error)
	UpdateContractItem(userID, itemID uint, contractAmount int64) (*models.ContractItem, error)
	DeleteContractItem(userID, itemID uint) error
	GetProjectFinancials(userID, projectID uint) (*ProjectFinancials, error)
}

// DocumentInput holds the fields for registering a project document.
type DocumentInput struct {
	ProjectID   uint
	Name        string
	StoragePath string
	ContentType string
	SizeBytes   int64
	Building    string
	Floor       string
	Stage       string
	Trade       string
}

// DocumentFilter holds the hierarchical location filters for listing documents.
type DocumentFilter struct {
	Building *string
	Floor    *string
	Stage    *string
	Trade    *string
}

// DocumentServicer defines the contract for the project file registry.
type DocumentServicer interface {
	RegisterDocument(userID uint, in DocumentInput) (*models.ProjectDocument, error)
	GetProjectDocuments(userID, projectID uint, page pagination.PageRequest, filter DocumentFilter) (*pagination.PageResponse[models.ProjectDocument], error)
	GetDocumentByID(userID, documentID uint) (*models.ProjectDocument, error)
	DeleteDocument(userID, documentID uint) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, projectID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]any)
}
