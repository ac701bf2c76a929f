package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "siteledger/internal/errors"
	"siteledger/internal/models"
	"siteledger/internal/pagination"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db       *gorm.DB
	projects ProjectServicer
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB, projects ProjectServicer) CategoryServicer {
	return &categoryService{db: db, projects: projects}
}

// CreateCategory creates a spending category within a project.
func (s *categoryService) CreateCategory(userID, projectID uint, name, description string) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if err := s.projects.AuthorizeAccess(userID, projectID); err != nil {
		return nil, err
	}

	category := &models.Category{
		ProjectID:   projectID,
		Name:        name,
		Description: description,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// GetProjectCategories returns a paginated list of the project's categories.
func (s *categoryService) GetProjectCategories(userID, projectID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	if err := s.projects.AuthorizeAccess(userID, projectID); err != nil {
		return nil, err
	}

	page.Defaults()
	base := s.db.Model(&models.Category{}).Where("project_id = ?", projectID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := base.Scopes(pagination.Paginate(page)).Order("name").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCategoryByID returns a category if the user can access its project.
func (s *categoryService) GetCategoryByID(userID, categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.projects.AuthorizeAccess(userID, category.ProjectID); err != nil {
		return nil, apperrors.ErrCategoryNotFound
	}
	return &category, nil
}

// UpdateCategory updates a category's name and description.
func (s *categoryService) UpdateCategory(userID, categoryID uint, name, description string) (*models.Category, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if description != "" {
		updates["description"] = description
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return category, nil
}

// DeleteCategory soft-deletes a category. Refused while ledger entries,
// purchase orders, budget lines, or contract items still reference it.
func (s *categoryService) DeleteCategory(userID, categoryID uint) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}

	referencing := []interface{}{
		&models.CashFlowEntry{},
		&models.PurchaseOrder{},
		&models.CategoryBudget{},
		&models.ContractItem{},
	}
	for _, model := range referencing {
		var count int64
		if err := s.db.Model(model).Where("category_id = ?", categoryID).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.ErrCategoryInUse
		}
	}

	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
