package services

import (
	"testing"

	"siteledger/internal/budget"
	"siteledger/internal/models"
	"siteledger/internal/testutil"

	"gorm.io/gorm"
)

func contractTestStack(t *testing.T) (*gorm.DB, ContractServicer) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	return db, NewContractService(db, NewProjectService(db))
}

func TestCreateContractItem(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db, svc := contractTestStack(t)
		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProjectWithSystem(t, db, user.ID, models.TrackingSystemFinancialsV2)
		cat := testutil.CreateTestCategory(t, db, project.ID)

		item, err := svc.CreateContractItem(user.ID, project.ID, cat.ID, 2000000)
		testutil.AssertNoError(t, err)
		if item.ContractAmount != 2000000 {
			t.Errorf("expected amount 2000000, got %d", item.ContractAmount)
		}
	})

	t.Run("duplicate_category_refused", func(t *testing.T) {
		db, svc := contractTestStack(t)
		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProjectWithSystem(t, db, user.ID, models.TrackingSystemFinancialsV2)
		cat := testutil.CreateTestCategory(t, db, project.ID)

		_, err := svc.CreateContractItem(user.ID, project.ID, cat.ID, 2000000)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateContractItem(user.ID, project.ID, cat.ID, 100)
		testutil.AssertAppError(t, err, "DUPLICATE_CONTRACT_ITEM")
	})

	t.Run("unknown_category", func(t *testing.T) {
		db, svc := contractTestStack(t)
		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProjectWithSystem(t, db, user.ID, models.TrackingSystemFinancialsV2)

		_, err := svc.CreateContractItem(user.ID, project.ID, 9999, 100)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestGetProjectFinancials(t *testing.T) {
	t.Run("profit_per_item", func(t *testing.T) {
		db, svc := contractTestStack(t)
		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProjectWithSystem(t, db, user.ID, models.TrackingSystemFinancialsV2)
		cat := testutil.CreateTestCategory(t, db, project.ID)
		testutil.CreateTestContractItem(t, db, project.ID, cat.ID, 2000000)
		testutil.CreateTestEntry(t, db, project.ID, &cat.ID, models.CashFlowTypeExpense, 1200000)
		testutil.CreateTestEntry(t, db, project.ID, &cat.ID, models.CashFlowTypeIncome, 500000)

		fin, err := svc.GetProjectFinancials(user.ID, project.ID)
		testutil.AssertNoError(t, err)

		if len(fin.Items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(fin.Items))
		}
		item := fin.Items[0]
		if item.ActualExpenses != 1200000 {
			t.Errorf("expected expenses 1200000, got %d", item.ActualExpenses)
		}
		if item.ReceivedIncome != 500000 {
			t.Errorf("expected income 500000, got %d", item.ReceivedIncome)
		}
		if item.ExpectedProfit != 800000 {
			t.Errorf("expected profit 800000, got %d", item.ExpectedProfit)
		}
		if item.PctUsed != 60 {
			t.Errorf("expected 60%% used, got %v", item.PctUsed)
		}
		if item.Status != budget.StatusOnBudget {
			t.Errorf("expected on_budget, got %s", item.Status)
		}
		if fin.ExpectedProfit != 800000 {
			t.Errorf("expected total profit 800000, got %d", fin.ExpectedProfit)
		}
	})

	t.Run("expenses_over_contract", func(t *testing.T) {
		db, svc := contractTestStack(t)
		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProjectWithSystem(t, db, user.ID, models.TrackingSystemFinancialsV2)
		cat := testutil.CreateTestCategory(t, db, project.ID)
		testutil.CreateTestContractItem(t, db, project.ID, cat.ID, 1000000)
		testutil.CreateTestEntry(t, db, project.ID, &cat.ID, models.CashFlowTypeExpense, 1100000)

		fin, err := svc.GetProjectFinancials(user.ID, project.ID)
		testutil.AssertNoError(t, err)

		item := fin.Items[0]
		if item.ExpectedProfit != -100000 {
			t.Errorf("expected negative profit -100000, got %d", item.ExpectedProfit)
		}
		if item.Status != budget.StatusOverBudget {
			t.Errorf("expected over_budget, got %s", item.Status)
		}
	})

	t.Run("legacy_entries_excluded", func(t *testing.T) {
		db, svc := contractTestStack(t)
		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProjectWithSystem(t, db, user.ID, models.TrackingSystemFinancialsV2)
		cat := testutil.CreateTestCategory(t, db, project.ID)
		testutil.CreateTestContractItem(t, db, project.ID, cat.ID, 1000000)
		testutil.CreateTestEntry(t, db, project.ID, &cat.ID, models.CashFlowTypeExpense, 200000)
		// Legacy rows can predate a switch to v2; they stay out of the profit view
		testutil.CreateTestEntry(t, db, project.ID, &cat.ID, models.CashFlowTypeAdditionExpense, 900000)

		fin, err := svc.GetProjectFinancials(user.ID, project.ID)
		testutil.AssertNoError(t, err)

		if fin.Items[0].ActualExpenses != 200000 {
			t.Errorf("expected legacy entries excluded, got %d", fin.Items[0].ActualExpenses)
		}
	})

	t.Run("empty_project", func(t *testing.T) {
		db, svc := contractTestStack(t)
		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProjectWithSystem(t, db, user.ID, models.TrackingSystemFinancialsV2)

		fin, err := svc.GetProjectFinancials(user.ID, project.ID)
		testutil.AssertNoError(t, err)
		if len(fin.Items) != 0 {
			t.Errorf("expected no items, got %d", len(fin.Items))
		}
		if fin.ExpectedProfit != 0 {
			t.Errorf("expected zero profit, got %d", fin.ExpectedProfit)
		}
	})
}

func TestDeleteContractItem(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db, svc := contractTestStack(t)
		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProjectWithSystem(t, db, user.ID, models.TrackingSystemFinancialsV2)
		cat := testutil.CreateTestCategory(t, db, project.ID)
		item := testutil.CreateTestContractItem(t, db, project.ID, cat.ID, 1000000)

		err := svc.DeleteContractItem(user.ID, item.ID)
		testutil.AssertNoError(t, err)

		items, err := svc.GetContractItems(user.ID, project.ID)
		testutil.AssertNoError(t, err)
		if len(items) != 0 {
			t.Errorf("expected no items after delete, got %d", len(items))
		}
	})

	t.Run("wrong_user", func(t *testing.T) {
		db, svc := contractTestStack(t)
		owner := testutil.CreateTestUser(t, db)
		outsider := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProjectWithSystem(t, db, owner.ID, models.TrackingSystemFinancialsV2)
		cat := testutil.CreateTestCategory(t, db, project.ID)
		item := testutil.CreateTestContractItem(t, db, project.ID, cat.ID, 1000000)

		err := svc.DeleteContractItem(outsider.ID, item.ID)
		testutil.AssertAppError(t, err, "CONTRACT_ITEM_NOT_FOUND")
	})
}
