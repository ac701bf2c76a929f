package services

import (
	"errors"

	"gorm.io/gorm"

	"siteledger/internal/budget"
	apperrors "siteledger/internal/errors"
	"siteledger/internal/models"
	"siteledger/internal/pagination"
)

// projectService handles project and membership business logic.
type projectService struct {
	db *gorm.DB
}

// NewProjectService creates a new ProjectServicer.
func NewProjectService(db *gorm.DB) ProjectServicer {
	return &projectService{db: db}
}

// CreateProject creates a project with its budget settings row and an
// owner membership, in one transaction.
func (s *projectService) CreateProject(ownerID uint, name, description, address string, system models.TrackingSystem, currency string) (*models.Project, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "project name is required")
	}
	if system == "" {
		system = models.TrackingSystemBudgetV1
	}
	if currency == "" {
		currency = "USD"
	}

	project := &models.Project{
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		Address:     address,
		IsActive:    true,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		settings := &models.ProjectBudgetSettings{
			ProjectID: project.ID,
			System:    system,
			Currency:  currency,
		}
		if err := tx.Create(settings).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		member := &models.ProjectMember{
			ProjectID: project.ID,
			UserID:    ownerID,
			Role:      models.MemberRoleOwner,
		}
		if err := tx.Create(member).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return project, nil
}

// GetUserProjects returns a paginated list of projects the user belongs to.
func (s *projectService) GetUserProjects(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Project], error) {
	page.Defaults()

	base := s.db.Model(&models.Project{}).
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ? AND project_members.deleted_at IS NULL", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var projects []models.Project
	if err := base.Preload("BudgetSettings").Scopes(pagination.Paginate(page)).Find(&projects).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(projects, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// AuthorizeAccess verifies the user is a member of the project. A project
// the user cannot see is reported as not found rather than forbidden.
func (s *projectService) AuthorizeAccess(userID, projectID uint) error {
	var count int64
	err := s.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrProjectNotFound
	}
	return nil
}

// GetProjectByID returns a project if the user is a member.
func (s *projectService) GetProjectByID(userID, projectID uint) (*models.Project, error) {
	if err := s.AuthorizeAccess(userID, projectID); err != nil {
		return nil, err
	}

	var project models.Project
	if err := s.db.Preload("BudgetSettings").Preload("Members").First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &project, nil
}

// UpdateProject updates a project's descriptive fields. Only the owner may update.
func (s *projectService) UpdateProject(userID, projectID uint, name, description, address string) (*models.Project, error) {
	project, err := s.ownedProject(userID, projectID)
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
	if address != "" {
		updates["address"] = address
	}

	if len(updates) > 0 {
		if err := s.db.Model(project).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return project, nil
}

// DeleteProject soft-deletes a project. Only the owner may delete.
func (s *projectService) DeleteProject(userID, projectID uint) error {
	project, err := s.ownedProject(userID, projectID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(project).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// AddMember adds a user to a project. Only the owner may add members.
func (s *projectService) AddMember(userID, projectID, memberUserID uint, role models.MemberRole, phone string) (*models.ProjectMember, error) {
	if _, err := s.ownedProject(userID, projectID); err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, memberUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var count int64
	s.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, memberUserID).
		Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateMember
	}

	if role == "" {
		role = models.MemberRoleViewer
	}

	member := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    memberUserID,
		Role:      role,
		Phone:     phone,
	}
	if err := s.db.Create(member).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return member, nil
}

// RemoveMember removes a membership. Only the owner may remove members;
// the owner's own membership cannot be removed.
func (s *projectService) RemoveMember(userID, projectID, memberID uint) error {
	project, err := s.ownedProject(userID, projectID)
	if err != nil {
		return err
	}

	var member models.ProjectMember
	if err := s.db.Where("id = ? AND project_id = ?", memberID, projectID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMemberNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if member.UserID == project.OwnerID {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "cannot remove the project owner")
	}

	if err := s.db.Delete(&member).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetDashboard recomputes the project's money position from current rows.
func (s *projectService) GetDashboard(userID, projectID uint) (*ProjectDashboard, error) {
	if err := s.AuthorizeAccess(userID, projectID); err != nil {
		return nil, err
	}

	dash := &ProjectDashboard{
		ProjectID:      projectID,
		CategoryStatus: make(map[budget.Status]int),
	}

	type sumRow struct{ Total int64 }
	var row sumRow

	err := s.db.Model(&models.CashFlowEntry{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("project_id = ? AND status = ? AND type IN ?", projectID, models.CashFlowStatusPaid,
			[]models.CashFlowType{models.CashFlowTypeIncome, models.CashFlowTypeAdditionIncome}).
		Scan(&row).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	dash.TotalIncome = row.Total

	err = s.db.Model(&models.CashFlowEntry{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("project_id = ? AND status = ? AND type IN ?", projectID, models.CashFlowStatusPaid,
			[]models.CashFlowType{models.CashFlowTypeExpense, models.CashFlowTypeAdditionExpense}).
		Scan(&row).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	dash.TotalExpenses = row.Total

	err = s.db.Model(&models.CashFlowEntry{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("project_id = ? AND status <> ? AND type IN ?", projectID, models.CashFlowStatusPaid,
			[]models.CashFlowType{models.CashFlowTypeExpense, models.CashFlowTypeAdditionExpense}).
		Scan(&row).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	dash.PendingExpenses = row.Total

	var orders []models.PurchaseOrder
	if err := s.db.Where("project_id = ?", projectID).Find(&orders).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := range orders {
		if orders[i].PaymentStatus != models.PaymentStatusPaid {
			dash.OpenOrderCount++
			dash.CommittedAmount += orders[i].CommittedAmount()
		}
	}

	rollup, err := buildRollup(s.db, projectID, nil)
	if err != nil {
		return nil, err
	}
	for i := range rollup.Categories {
		dash.CategoryStatus[rollup.Categories[i].Status]++
	}

	return dash, nil
}

// ownedProject returns the project if the user owns it, hiding projects
// the user cannot access behind not-found.
func (s *projectService) ownedProject(userID, projectID uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if project.OwnerID != userID {
		if err := s.AuthorizeAccess(userID, projectID); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrForbidden
	}
	return &project, nil
}
