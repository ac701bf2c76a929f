package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "siteledger/internal/errors"
	"siteledger/internal/models"
	"siteledger/internal/services"
)

// BudgetHandler handles budget line, settings, and rollup requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

// CreateBudgetLineRequest represents the request payload for creating a budget line.
type CreateBudgetLineRequest struct {
	CategoryID     uint  `json:"category_id" binding:"required"`
	BudgetedAmount int64 `json:"budgeted_amount" binding:"gte=0"`
}

// UpdateBudgetLineRequest represents the request payload for updating a budget line.
type UpdateBudgetLineRequest struct {
	BudgetedAmount int64 `json:"budgeted_amount" binding:"gte=0"`
}

// UpdateSettingsRequest represents the request payload for switching tracking systems.
type UpdateSettingsRequest struct {
	System   models.TrackingSystem `json:"system" binding:"required,tracking_system"`
	Currency string                `json:"currency" binding:"omitempty,len=3"`
}

// CreateBudgetLine handles creating a per-category budget line.
// @Summary     Create budget line
// @Description Set the budgeted amount for a category. One line per category per project.
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                     true "Project ID"
// @Param       request body CreateBudgetLineRequest true "Budget line details"
// @Success     201 {object} models.CategoryBudget "Budget line created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Project or category not found"
// @Failure     409 {object} ErrorResponse "Category already has a budget line"
// @Router      /projects/{id}/budgets [post]
func (h *BudgetHandler) CreateBudgetLine(c *gin.Context) {
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

	var req CreateBudgetLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	line, err := h.budgetService.CreateBudgetLine(userID, projectID, req.CategoryID, req.BudgetedAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, projectID, "CREATE_BUDGET_LINE", "category_budget", line.ID, c.ClientIP(),
		map[string]interface{}{"category_id": req.CategoryID, "budgeted_amount": req.BudgetedAmount})

	c.JSON(http.StatusCreated, gin.H{"budget": line})
}

// GetBudgetLines handles listing a project's budget lines.
// @Summary     Get budget lines
// @Description Get all budget lines for a project
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Project ID"
// @Success     200 {array}  models.CategoryBudget "Budget lines"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/budgets [get]
func (h *BudgetHandler) GetBudgetLines(c *gin.Context) {
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

	lines, err := h.budgetService.GetBudgetLines(userID, projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": lines})
}

// UpdateBudgetLine handles changing a budget line amount.
// @Summary     Update budget line
// @Description Update the budgeted amount of an existing budget line
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                     true "Budget line ID"
// @Param       request body UpdateBudgetLineRequest true "Updated amount"
// @Success     200 {object} models.CategoryBudget "Updated budget line"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Budget line not found"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudgetLine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	lineID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	line, err := h.budgetService.UpdateBudgetLine(userID, lineID, req.BudgetedAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, line.ProjectID, "UPDATE_BUDGET_LINE", "category_budget", line.ID, c.ClientIP(),
		map[string]interface{}{"budgeted_amount": req.BudgetedAmount})

	c.JSON(http.StatusOK, gin.H{"budget": line})
}

// DeleteBudgetLine handles deleting a budget line.
// @Summary     Delete budget line
// @Description Delete a budget line. The category's ledger entries are unaffected.
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget line ID"
// @Success     200 {object} MessageResponse "Budget line deleted"
// @Failure     404 {object} ErrorResponse "Budget line not found"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudgetLine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	lineID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudgetLine(userID, lineID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, 0, "DELETE_BUDGET_LINE", "category_budget", lineID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Budget line deleted successfully"})
}

// GetSettings handles retrieving a project's tracking settings.
// @Summary     Get budget settings
// @Description Get the project's tracking system and currency
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Project ID"
// @Success     200 {object} models.ProjectBudgetSettings "Settings"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/budget-settings [get]
func (h *BudgetHandler) GetSettings(c *gin.Context) {
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

	settings, err := h.budgetService.GetSettings(userID, projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings handles switching a project's tracking system.
// @Summary     Update budget settings
// @Description Switch the project between budget and financials tracking
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                   true "Project ID"
// @Param       request body UpdateSettingsRequest true "New settings"
// @Success     200 {object} models.ProjectBudgetSettings "Updated settings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/budget-settings [put]
func (h *BudgetHandler) UpdateSettings(c *gin.Context) {
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

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	settings, err := h.budgetService.UpdateSettings(userID, projectID, req.System, req.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, projectID, "UPDATE_BUDGET_SETTINGS", "project_budget_settings", settings.ID, c.ClientIP(),
		map[string]interface{}{"system": string(req.System)})

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// GetRollup handles the per-category budget exposure rollup.
// @Summary     Get budget rollup
// @Description Get per-category spent, committed, and available amounts with status classification
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id          path  int true  "Project ID"
// @Param       category_id query int false "Restrict to a single category"
// @Success     200 {object} services.ProjectRollup "Rollup"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/budgets/rollup [get]
func (h *BudgetHandler) GetRollup(c *gin.Context) {
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

	var categoryID *uint
	if v := c.Query("category_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid category_id filter"))
			return
		}
		cid := uint(id)
		categoryID = &cid
	}

	rollup, err := h.budgetService.GetProjectRollup(userID, projectID, categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, rollup)
}
