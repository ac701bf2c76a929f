package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "siteledger/internal/errors"
	"siteledger/internal/models"
	"siteledger/internal/pagination"
)

// cashFlowService handles ledger-related business logic.
type cashFlowService struct {
	db       *gorm.DB
	projects ProjectServicer
}

// NewCashFlowService creates a new CashFlowServicer.
func NewCashFlowService(db *gorm.DB, projects ProjectServicer) CashFlowServicer {
	return &cashFlowService{db: db, projects: projects}
}

// CreateEntry records a money movement in the project ledger. Projects on
// the financials_v2 system refuse the legacy addition_* entry types.
func (s *cashFlowService) CreateEntry(
	userID, projectID uint,
	categoryID *uint,
	entryType models.CashFlowType,
	status models.CashFlowStatus,
	amount int64,
	description string,
	date time.Time,
	notes string,
) (*models.CashFlowEntry, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if !entryType.IsExpense() && !entryType.IsIncome() {
		return nil, apperrors.ErrInvalidEntryType
	}
	if err := s.projects.AuthorizeAccess(userID, projectID); err != nil {
		return nil, err
	}

	if entryType.IsLegacy() {
		var settings models.ProjectBudgetSettings
		err := s.db.Where("project_id = ?", projectID).First(&settings).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if settings.System == models.TrackingSystemFinancialsV2 {
			return nil, apperrors.ErrLegacyEntryType
		}
	}

	if categoryID != nil {
		var category models.Category
		if err := s.db.Where("id = ? AND project_id = ?", *categoryID, projectID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	if status == "" {
		status = models.CashFlowStatusPaid
	}
	if date.IsZero() {
		date = time.Now()
	}

	entry := &models.CashFlowEntry{
		ProjectID:   projectID,
		CategoryID:  categoryID,
		Type:        entryType,
		Status:      status,
		Amount:      amount,
		Description: description,
		Date:        date,
		Notes:       notes,
	}
	if err := s.db.Create(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entry, nil
}

// GetProjectEntries returns a paginated, filtered list of ledger entries.
func (s *cashFlowService) GetProjectEntries(userID, projectID uint, page pagination.PageRequest, filter CashFlowFilter) (*pagination.PageResponse[models.CashFlowEntry], error) {
	if err := s.projects.AuthorizeAccess(userID, projectID); err != nil {
		return nil, err
	}

	page.Defaults()
	base := s.db.Model(&models.CashFlowEntry{}).Where("project_id = ?", projectID)
	base = applyCashFlowFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.CashFlowEntry
	if err := base.Preload("Category").Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyCashFlowFilters(q *gorm.DB, f CashFlowFilter) *gorm.DB {
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	return q
}

// GetEntryByID returns an entry if the user can access its project.
func (s *cashFlowService) GetEntryByID(userID, entryID uint) (*models.CashFlowEntry, error) {
	var entry models.CashFlowEntry
	if err := s.db.Preload("Category").First(&entry, entryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEntryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.projects.AuthorizeAccess(userID, entry.ProjectID); err != nil {
		return nil, apperrors.ErrEntryNotFound
	}
	return &entry, nil
}

// UpdateEntry updates a hand-recorded entry. Entries generated by a
// purchase order are managed through the order's lifecycle only.
func (s *cashFlowService) UpdateEntry(
	userID, entryID uint,
	categoryID *uint,
	status *models.CashFlowStatus,
	amount *int64,
	description string,
	date *time.Time,
	notes *string,
) (*models.CashFlowEntry, error) {
	entry, err := s.GetEntryByID(userID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.SourcePurchaseOrderID != nil {
		return nil, apperrors.ErrEntryManaged
	}
	if amount != nil && *amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	updates := make(map[string]interface{})
	if categoryID != nil {
		var category models.Category
		if err := s.db.Where("id = ? AND project_id = ?", *categoryID, entry.ProjectID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		updates["category_id"] = *categoryID
	}
	if status != nil {
		updates["status"] = *status
	}
	if amount != nil {
		updates["amount"] = *amount
	}
	if description != "" {
		updates["description"] = description
	}
	if date != nil {
		updates["date"] = *date
	}
	if notes != nil {
		updates["notes"] = *notes
	}

	if len(updates) > 0 {
		if err := s.db.Model(entry).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return entry, nil
}

// DeleteEntry deletes a hand-recorded entry. PO-generated entries are
// removed by undoing the order's payment instead.
func (s *cashFlowService) DeleteEntry(userID, entryID uint) error {
	entry, err := s.GetEntryByID(userID, entryID)
	if err != nil {
		return err
	}
	if entry.SourcePurchaseOrderID != nil {
		return apperrors.ErrEntryManaged
	}
	if err := s.db.Delete(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
