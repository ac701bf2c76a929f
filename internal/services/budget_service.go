package services

import (
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"siteledger/internal/budget"
	apperrors "siteledger/internal/errors"
	"siteledger/internal/models"
)

// budgetService handles v1 budget lines, project budget settings, and
// the committed-cost rollup.
type budgetService struct {
	db       *gorm.DB
	projects ProjectServicer
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, projects ProjectServicer) BudgetServicer {
	return &budgetService{db: db, projects: projects}
}

// CreateBudgetLine allocates a budget to a category. At most one line
// exists per project and category; a duplicate is refused with the
// existing line's id so callers can offer to edit it instead.
func (s *budgetService) CreateBudgetLine(userID, projectID, categoryID uint, budgetedAmount int64) (*models.CategoryBudget, error) {
	if budgetedAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budgeted amount must be greater than zero")
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

	var existing models.CategoryBudget
	err := s.db.Where("project_id = ? AND category_id = ?", projectID, categoryID).First(&existing).Error
	if err == nil {
		return nil, apperrors.WithMessage(apperrors.ErrDuplicateBudget,
			fmt.Sprintf("A budget line for this category already exists (id %d); edit it instead", existing.ID))
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	line := &models.CategoryBudget{
		ProjectID:      projectID,
		CategoryID:     categoryID,
		BudgetedAmount: budgetedAmount,
	}
	if err := s.db.Create(line).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return line, nil
}

// GetBudgetLines returns all budget lines for a project.
func (s *budgetService) GetBudgetLines(userID, projectID uint) ([]models.CategoryBudget, error) {
	if err := s.projects.AuthorizeAccess(userID, projectID); err != nil {
		return nil, err
	}

	var lines []models.CategoryBudget
	if err := s.db.Preload("Category").Where("project_id = ?", projectID).Find(&lines).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return lines, nil
}

// UpdateBudgetLine changes the allocated amount of a budget line.
func (s *budgetService) UpdateBudgetLine(userID, lineID uint, budgetedAmount int64) (*models.CategoryBudget, error) {
	if budgetedAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budgeted amount must be greater than zero")
	}

	line, err := s.getLine(userID, lineID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(line).Update("budgeted_amount", budgetedAmount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return line, nil
}

// DeleteBudgetLine removes a budget line. Spending against the category
// is untouched; it will surface as over-budget in the rollup.
func (s *budgetService) DeleteBudgetLine(userID, lineID uint) error {
	line, err := s.getLine(userID, lineID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(line).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *budgetService) getLine(userID, lineID uint) (*models.CategoryBudget, error) {
	var line models.CategoryBudget
	if err := s.db.First(&line, lineID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetLineNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.projects.AuthorizeAccess(userID, line.ProjectID); err != nil {
		return nil, apperrors.ErrBudgetLineNotFound
	}
	return &line, nil
}

// GetSettings returns the project's budget settings.
func (s *budgetService) GetSettings(userID, projectID uint) (*models.ProjectBudgetSettings, error) {
	if err := s.projects.AuthorizeAccess(userID, projectID); err != nil {
		return nil, err
	}

	var settings models.ProjectBudgetSettings
	if err := s.db.Where("project_id = ?", projectID).First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSettingsNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &settings, nil
}

// UpdateSettings switches the project's tracking system or currency.
func (s *budgetService) UpdateSettings(userID, projectID uint, system models.TrackingSystem, currency string) (*models.ProjectBudgetSettings, error) {
	settings, err := s.GetSettings(userID, projectID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if system != "" {
		updates["system"] = system
	}
	if currency != "" {
		updates["currency"] = currency
	}
	if len(updates) > 0 {
		if err := s.db.Model(settings).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return settings, nil
}

// GetProjectRollup recomputes the project's budget exposure from current
// rows. No caching: every call re-scans the relevant row set, which is
// fine at construction-project scale.
func (s *budgetService) GetProjectRollup(userID, projectID uint, categoryID *uint) (*ProjectRollup, error) {
	if err := s.projects.AuthorizeAccess(userID, projectID); err != nil {
		return nil, err
	}
	return buildRollup(s.db, projectID, categoryID)
}

// buildRollup computes per-category and total budget exposure. Shared
// with the dashboard so every consumer classifies with the same rules.
// Categories with spending or commitments but no budget line still get
// a rollup row, so the zero-budget over-spend case is never hidden.
func buildRollup(db *gorm.DB, projectID uint, categoryID *uint) (*ProjectRollup, error) {
	byCategory := make(map[uint]*budget.CategoryRollup)
	include := func(id uint) bool {
		return categoryID == nil || *categoryID == id
	}
	rollupFor := func(id uint) *budget.CategoryRollup {
		r, ok := byCategory[id]
		if !ok {
			r = &budget.CategoryRollup{CategoryID: id}
			byCategory[id] = r
		}
		return r
	}

	var lines []models.CategoryBudget
	if err := db.Where("project_id = ?", projectID).Find(&lines).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := range lines {
		if include(lines[i].CategoryID) {
			rollupFor(lines[i].CategoryID).BudgetedAmount = lines[i].BudgetedAmount
		}
	}

	type spentRow struct {
		CategoryID uint
		Total      int64
	}
	var spent []spentRow
	err := db.Model(&models.CashFlowEntry{}).
		Select("category_id, COALESCE(SUM(amount), 0) AS total").
		Where("project_id = ? AND status = ? AND category_id IS NOT NULL AND type IN ?",
			projectID, models.CashFlowStatusPaid,
			[]models.CashFlowType{models.CashFlowTypeExpense, models.CashFlowTypeAdditionExpense}).
		Group("category_id").
		Scan(&spent).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, row := range spent {
		if include(row.CategoryID) {
			rollupFor(row.CategoryID).SpentAmount = row.Total
		}
	}

	var orders []models.PurchaseOrder
	if err := db.Where("project_id = ?", projectID).Find(&orders).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := range orders {
		if include(orders[i].CategoryID) {
			rollupFor(orders[i].CategoryID).CommittedAmount += orders[i].CommittedAmount()
		}
	}

	var categories []models.Category
	if err := db.Where("project_id = ?", projectID).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	names := make(map[uint]string, len(categories))
	for i := range categories {
		names[categories[i].ID] = categories[i].Name
	}

	rollups := make([]budget.CategoryRollup, 0, len(byCategory))
	for id, r := range byCategory {
		r.CategoryName = names[id]
		budget.Compute(r)
		rollups = append(rollups, *r)
	}
	sort.Slice(rollups, func(i, j int) bool {
		return rollups[i].CategoryName < rollups[j].CategoryName
	})

	return &ProjectRollup{
		ProjectID:  projectID,
		Categories: rollups,
		Totals:     budget.Sum(rollups),
	}, nil
}
