package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "siteledger/internal/errors"
	"siteledger/internal/models"
	"siteledger/internal/pagination"
)

// documentService handles the project file registry. Only metadata lives
// here; file bytes are stored externally.
type documentService struct {
	db       *gorm.DB
	projects ProjectServicer
}

// NewDocumentService creates a new DocumentServicer.
func NewDocumentService(db *gorm.DB, projects ProjectServicer) DocumentServicer {
	return &documentService{db: db, projects: projects}
}

// RegisterDocument records a file in the project registry with its
// hierarchical location tags.
func (s *documentService) RegisterDocument(userID uint, in DocumentInput) (*models.ProjectDocument, error) {
	if in.Name == "" || in.StoragePath == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "document name and storage path are required")
	}
	if err := s.projects.AuthorizeAccess(userID, in.ProjectID); err != nil {
		return nil, err
	}

	doc := &models.ProjectDocument{
		ProjectID:   in.ProjectID,
		Name:        in.Name,
		StoragePath: in.StoragePath,
		ContentType: in.ContentType,
		SizeBytes:   in.SizeBytes,
		Building:    in.Building,
		Floor:       in.Floor,
		Stage:       in.Stage,
		Trade:       in.Trade,
		UploadedBy:  userID,
	}
	if err := s.db.Create(doc).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return doc, nil
}

// GetProjectDocuments lists documents at a hierarchy level. Each filter
// narrows one level: building, then floor, then stage, then trade.
func (s *documentService) GetProjectDocuments(userID, projectID uint, page pagination.PageRequest, filter DocumentFilter) (*pagination.PageResponse[models.ProjectDocument], error) {
	if err := s.projects.AuthorizeAccess(userID, projectID); err != nil {
		return nil, err
	}

	page.Defaults()
	base := s.db.Model(&models.ProjectDocument{}).Where("project_id = ?", projectID)
	if filter.Building != nil {
		base = base.Where("building = ?", *filter.Building)
	}
	if filter.Floor != nil {
		base = base.Where("floor = ?", *filter.Floor)
	}
	if filter.Stage != nil {
		base = base.Where("stage = ?", *filter.Stage)
	}
	if filter.Trade != nil {
		base = base.Where("trade = ?", *filter.Trade)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var docs []models.ProjectDocument
	if err := base.Scopes(pagination.Paginate(page)).Order("name").Find(&docs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(docs, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetDocumentByID returns a document if the user can access its project.
func (s *documentService) GetDocumentByID(userID, documentID uint) (*models.ProjectDocument, error) {
	var doc models.ProjectDocument
	if err := s.db.First(&doc, documentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDocumentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.projects.AuthorizeAccess(userID, doc.ProjectID); err != nil {
		return nil, apperrors.ErrDocumentNotFound
	}
	return &doc, nil
}

// DeleteDocument removes a registry record. The externally stored bytes
// are not touched.
func (s *documentService) DeleteDocument(userID, documentID uint) error {
	doc, err := s.GetDocumentByID(userID, documentID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(doc).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
