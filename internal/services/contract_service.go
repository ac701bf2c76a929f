package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"siteledger/internal/budget"
	apperrors "siteledger/internal/errors"
	"siteledger/internal/models"
)

// contractService handles the v2 financials: contract line items and the
// profit view derived from them.
type contractService struct {
	db       *gorm.DB
	projects ProjectServicer
}

// NewContractService creates a new ContractServicer.
func NewContractService(db *gorm.DB, projects ProjectServicer) ContractServicer {
	return &contractService{db: db, projects: projects}
}

// CreateContractItem allocates a contract amount to a category. One item
// per project and category; duplicates are refused with the existing
// item's id.
func (s *contractService) CreateContractItem(userID, projectID, categoryID uint, contractAmount int64) (*models.ContractItem, error) {
	if contractAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "contract amount must be greater than zero")
	}
	if err := s.projects.AuthorizeAccess(userID, projectID); err != nil {
		return nil, err
	}

	var category models.Category
	if err := s.db.Where("id = ? AND project_id = ?", categoryID, projectID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var existing models.ContractItem
	err := s.db.Where("project_id = ? AND category_id = ?", projectID, categoryID).First(&existing).Error
	if err == nil {
		return nil, apperrors.WithMessage(apperrors.ErrDuplicateContract,
			fmt.Sprintf("A contract item for this category already exists (id %d); edit it instead", existing.ID))
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	item := &models.ContractItem{
		ProjectID:      projectID,
		CategoryID:     categoryID,
		ContractAmount: contractAmount,
	}
	if err := s.db.Create(item).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return item, nil
}

// GetContractItems returns all contract items for a project.
func (s *contractService) GetContractItems(userID, projectID uint) ([]models.ContractItem, error) {
	if err := s.projects.AuthorizeAccess(userID, projectID); err != nil {
		return nil, err
	}

	var items []models.ContractItem
	if err := s.db.Preload("Category").Where("project_id = ?", projectID).Find(&items).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return items, nil
}

// UpdateContractItem changes the contract amount of an item.
func (s *contractService) UpdateContractItem(userID, itemID uint, contractAmount int64) (*models.ContractItem, error) {
	if contractAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "contract amount must be greater than zero")
	}

	item, err := s.getItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(item).Update("contract_amount", contractAmount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return item, nil
}

// DeleteContractItem removes a contract item.
func (s *contractService) DeleteContractItem(userID, itemID uint) error {
	item, err := s.getItem(userID, itemID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(item).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *contractService) getItem(userID, itemID uint) (*models.ContractItem, error) {
	var item models.ContractItem
	if err := s.db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrContractItemNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.projects.AuthorizeAccess(userID, item.ProjectID); err != nil {
		return nil, apperrors.ErrContractItemNotFound
	}
	return &item, nil
}

// GetProjectFinancials derives the v2 profit view: per contract item,
// actual expenses and received income from paid ledger entries, and
// expected profit = contract - actual. The legacy addition_* types are
// never produced under v2 and are excluded here.
func (s *contractService) GetProjectFinancials(userID, projectID uint) (*ProjectFinancials, error) {
	items, err := s.GetContractItems(userID, projectID)
	if err != nil {
		return nil, err
	}

	type sumRow struct {
		CategoryID uint
		Total      int64
	}
	sumByCategory := func(entryType models.CashFlowType) (map[uint]int64, error) {
		var rows []sumRow
		err := s.db.Model(&models.CashFlowEntry{}).
			Select("category_id, COALESCE(SUM(amount), 0) AS total").
			Where("project_id = ? AND status = ? AND type = ? AND category_id IS NOT NULL",
				projectID, models.CashFlowStatusPaid, entryType).
			Group("category_id").
			Scan(&rows).Error
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		sums := make(map[uint]int64, len(rows))
		for _, row := range rows {
			sums[row.CategoryID] = row.Total
		}
		return sums, nil
	}

	expenses, err := sumByCategory(models.CashFlowTypeExpense)
	if err != nil {
		return nil, err
	}
	income, err := sumByCategory(models.CashFlowTypeIncome)
	if err != nil {
		return nil, err
	}

	fin := &ProjectFinancials{ProjectID: projectID, Items: make([]ContractItemSummary, 0, len(items))}
	for i := range items {
		item := &items[i]
		summary := ContractItemSummary{
			ItemID:         item.ID,
			CategoryID:     item.CategoryID,
			CategoryName:   item.Category.Name,
			ContractAmount: item.ContractAmount,
			ActualExpenses: expenses[item.CategoryID],
			ReceivedIncome: income[item.CategoryID],
		}
		summary.ExpectedProfit = summary.ContractAmount - summary.ActualExpenses
		if summary.ContractAmount > 0 {
			summary.PctUsed = float64(summary.ActualExpenses) / float64(summary.ContractAmount) * 100
		}
		summary.Status = budget.Classify(summary.PctUsed, summary.ContractAmount, summary.ActualExpenses)
		fin.Items = append(fin.Items, summary)

		fin.ContractTotal += summary.ContractAmount
		fin.ExpenseTotal += summary.ActualExpenses
		fin.IncomeTotal += summary.ReceivedIncome
	}
	fin.ExpectedProfit = fin.ContractTotal - fin.ExpenseTotal

	return fin, nil
}
