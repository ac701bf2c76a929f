package services

import (
	"testing"

	"siteledger/internal/models"
	"siteledger/internal/pagination"
	"siteledger/internal/testutil"

	"gorm.io/gorm"
)

func categoryTestStack(t *testing.T) (*gorm.DB, CategoryServicer) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	return db, NewCategoryService(db, NewProjectService(db))
}

func TestCreateCategory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db, svc := categoryTestStack(t)
		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)

		category, err := svc.CreateCategory(user.ID, project.ID, "Concrete", "structural works")
		testutil.AssertNoError(t, err)

		if category.ID == 0 {
			t.Fatal("expected non-zero category ID")
		}
		if category.Name != "Concrete" {
			t.Errorf("expected name Concrete, got %s", category.Name)
		}
		if category.ProjectID != project.ID {
			t.Errorf("expected project %d, got %d", project.ID, category.ProjectID)
		}
	})

	t.Run("missing_name", func(t *testing.T) {
		db, svc := categoryTestStack(t)
		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)

		_, err := svc.CreateCategory(user.ID, project.ID, "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("non_member", func(t *testing.T) {
		db, svc := categoryTestStack(t)
		owner := testutil.CreateTestUser(t, db)
		outsider := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, owner.ID)

		_, err := svc.CreateCategory(outsider.ID, project.ID, "Concrete", "")
		testutil.AssertAppError(t, err, "PROJECT_NOT_FOUND")
	})
}

func TestGetProjectCategories(t *testing.T) {
	t.Run("scoped_to_project", func(t *testing.T) {
		db, svc := categoryTestStack(t)
		user := testutil.CreateTestUser(t, db)
		project1 := testutil.CreateTestProject(t, db, user.ID)
		project2 := testutil.CreateTestProject(t, db, user.ID)

		testutil.CreateTestCategory(t, db, project1.ID)
		testutil.CreateTestCategory(t, db, project1.ID)
		testutil.CreateTestCategory(t, db, project2.ID)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetProjectCategories(user.ID, project1.ID, page)
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Errorf("expected 2 categories, got %d", result.TotalItems)
		}
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db, svc := categoryTestStack(t)
		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)
		cat := testutil.CreateTestCategory(t, db, project.ID)

		err := svc.DeleteCategory(user.ID, cat.ID)
		testutil.AssertNoError(t, err)

		_, err = svc.GetCategoryByID(user.ID, cat.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("refused_with_ledger_entries", func(t *testing.T) {
		db, svc := categoryTestStack(t)
		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)
		cat := testutil.CreateTestCategory(t, db, project.ID)
		testutil.CreateTestEntry(t, db, project.ID, &cat.ID, models.CashFlowTypeExpense, 1000)

		err := svc.DeleteCategory(user.ID, cat.ID)
		testutil.AssertAppError(t, err, "CATEGORY_IN_USE")
	})

	t.Run("refused_with_orders", func(t *testing.T) {
		db, svc := categoryTestStack(t)
		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)
		cat := testutil.CreateTestCategory(t, db, project.ID)
		testutil.CreateTestOrder(t, db, project.ID, cat.ID, 1000)

		err := svc.DeleteCategory(user.ID, cat.ID)
		testutil.AssertAppError(t, err, "CATEGORY_IN_USE")
	})

	t.Run("refused_with_budget_line", func(t *testing.T) {
		db, svc := categoryTestStack(t)
		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)
		cat := testutil.CreateTestCategory(t, db, project.ID)
		testutil.CreateTestBudgetLine(t, db, project.ID, cat.ID, 1000)

		err := svc.DeleteCategory(user.ID, cat.ID)
		testutil.AssertAppError(t, err, "CATEGORY_IN_USE")
	})
}
