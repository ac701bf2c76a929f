package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"siteledger/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    fmt.Sprintf("user%d@test.com", nextID()),
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestProject creates a project owned by the user, with budget
// settings on the v1 system and an owner membership.
func CreateTestProject(t *testing.T, db *gorm.DB, ownerID uint) *models.Project {
	t.Helper()
	return CreateTestProjectWithSystem(t, db, ownerID, models.TrackingSystemBudgetV1)
}

// CreateTestProjectWithSystem creates a project on the given tracking system.
func CreateTestProjectWithSystem(t *testing.T, db *gorm.DB, ownerID uint, system models.TrackingSystem) *models.Project {
	t.Helper()

	project := &models.Project{
		OwnerID:  ownerID,
		Name:     fmt.Sprintf("Test Project %d", nextID()),
		IsActive: true,
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}

	settings := &models.ProjectBudgetSettings{
		ProjectID: project.ID,
		System:    system,
		Currency:  "USD",
	}
	if err := db.Create(settings).Error; err != nil {
		t.Fatalf("failed to create test budget settings: %v", err)
	}

	member := &models.ProjectMember{
		ProjectID: project.ID,
		UserID:    ownerID,
		Role:      models.MemberRoleOwner,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to create owner membership: %v", err)
	}

	return project
}

// CreateTestCategory creates a spending category in the project.
func CreateTestCategory(t *testing.T, db *gorm.DB, projectID uint) *models.Category {
	t.Helper()

	category := &models.Category{
		ProjectID: projectID,
		Name:      fmt.Sprintf("Test Category %d", nextID()),
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestEntry creates a paid cash-flow entry of the given type and
// amount (in cents) against the category.
func CreateTestEntry(t *testing.T, db *gorm.DB, projectID uint, categoryID *uint, entryType models.CashFlowType, amount int64) *models.CashFlowEntry {
	t.Helper()

	entry := &models.CashFlowEntry{
		ProjectID:  projectID,
		CategoryID: categoryID,
		Type:       entryType,
		Status:     models.CashFlowStatusPaid,
		Amount:     amount,
		Date:       time.Now(),
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test cash-flow entry: %v", err)
	}
	return entry
}

// CreateTestOrder creates an unpaid, undelivered purchase order with the
// given total (in cents).
func CreateTestOrder(t *testing.T, db *gorm.DB, projectID, categoryID uint, total int64) *models.PurchaseOrder {
	t.Helper()

	order := &models.PurchaseOrder{
		ProjectID:      projectID,
		CategoryID:     categoryID,
		SupplierName:   fmt.Sprintf("Test Supplier %d", nextID()),
		TotalAmount:    total,
		DeliveryStatus: models.DeliveryStatusPending,
		PaymentStatus:  models.PaymentStatusUnpaid,
		Status:         models.OrderStatusOrdered,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("failed to create test purchase order: %v", err)
	}
	return order
}

// CreateTestBudgetLine creates a v1 budget line for the category.
func CreateTestBudgetLine(t *testing.T, db *gorm.DB, projectID, categoryID uint, amount int64) *models.CategoryBudget {
	t.Helper()

	line := &models.CategoryBudget{
		ProjectID:      projectID,
		CategoryID:     categoryID,
		BudgetedAmount: amount,
	}
	if err := db.Create(line).Error; err != nil {
		t.Fatalf("failed to create test budget line: %v", err)
	}
	return line
}

// CreateTestContractItem creates a v2 contract item for the category.
func CreateTestContractItem(t *testing.T, db *gorm.DB, projectID, categoryID uint, amount int64) *models.ContractItem {
	t.Helper()

	item := &models.ContractItem{
		ProjectID:      projectID,
		CategoryID:     categoryID,
		ContractAmount: amount,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create test contract item: %v", err)
	}
	return item
}
