package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "siteledger/internal/errors"
	"siteledger/internal/pagination"
	"siteledger/internal/services"
)

// DocumentHandler handles project document registry requests.
type DocumentHandler struct {
	documentService services.DocumentServicer
	auditService    services.AuditServicer
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService services.DocumentServicer, auditService services.AuditServicer) *DocumentHandler {
	return &DocumentHandler{documentService: documentService, auditService: auditService}
}

// RegisterDocumentRequest represents the request payload for registering a document.
type RegisterDocumentRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=255"`
	StoragePath string `json:"storage_path" binding:"required,max=1024"`
	ContentType string `json:"content_type" binding:"max=255"`
	SizeBytes   int64  `json:"size_bytes" binding:"gte=0"`
	Building    string `json:"building" binding:"max=100"`
	Floor       string `json:"floor" binding:"max=100"`
	Stage       string `json:"stage" binding:"max=100"`
	Trade       string `json:"trade" binding:"max=100"`
}

// RegisterDocument handles registering an uploaded file against a project.
// @Summary     Register document
// @Description Register a stored file with its building, floor, stage, and trade tags
// @Tags        documents
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                     true "Project ID"
// @Param       request body RegisterDocumentRequest true "Document details"
// @Success     201 {object} models.ProjectDocument "Document registered"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/documents [post]
func (h *DocumentHandler) RegisterDocument(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RegisterDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	doc, err := h.documentService.RegisterDocument(userID, services.DocumentInput{
		ProjectID:   projectID,
		Name:        req.Name,
		StoragePath: req.StoragePath,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		Building:    req.Building,
		Floor:       req.Floor,
		Stage:       req.Stage,
		Trade:       req.Trade,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, projectID, "REGISTER_DOCUMENT", "project_document", doc.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusCreated, gin.H{"document": doc})
}

// GetDocuments handles listing a project's documents.
// @Summary     Get documents
// @Description Get a paginated list of project documents, filterable by location tags
// @Tags        documents
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  int    true  "Project ID"
// @Param       building  query string false "Filter by building"
// @Param       floor     query string false "Filter by floor"
// @Param       stage     query string false "Filter by stage"
// @Param       trade     query string false "Filter by trade"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.ProjectDocument] "Paginated documents"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/documents [get]
func (h *DocumentHandler) GetDocuments(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.DocumentFilter
	if v, ok := c.GetQuery("building"); ok {
		filter.Building = &v
	}
	if v, ok := c.GetQuery("floor"); ok {
		filter.Floor = &v
	}
	if v, ok := c.GetQuery("stage"); ok {
		filter.Stage = &v
	}
	if v, ok := c.GetQuery("trade"); ok {
		filter.Trade = &v
	}

	result, err := h.documentService.GetProjectDocuments(userID, projectID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetDocument handles retrieving a specific document.
// @Summary     Get document by ID
// @Description Get a registered document's metadata
// @Tags        documents
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Document ID"
// @Success     200 {object} models.ProjectDocument "Document details"
// @Failure     404 {object} ErrorResponse "Document not found"
// @Router      /documents/{id} [get]
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	documentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	doc, err := h.documentService.GetDocumentByID(userID, documentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"document": doc})
}

// DeleteDocument handles removing a document from the registry.
// @Summary     Delete document
// @Description Remove a document from the registry. The stored file itself is not touched.
// @Tags        documents
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Document ID"
// @Success     200 {object} MessageResponse "Document deleted"
// @Failure     404 {object} ErrorResponse "Document not found"
// @Router      /documents/{id} [delete]
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	documentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.documentService.DeleteDocument(userID, documentID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, 0, "DELETE_DOCUMENT", "project_document", documentID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
}
