package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "siteledger/internal/errors"
	"siteledger/internal/models"
	"siteledger/internal/pagination"
	"siteledger/internal/services"
)

// CashFlowHandler handles ledger-related requests.
type CashFlowHandler struct {
	cashFlowService services.CashFlowServicer
	auditService    services.AuditServicer
}

// NewCashFlowHandler creates a new CashFlowHandler.
func NewCashFlowHandler(cashFlowService services.CashFlowServicer, auditService services.AuditServicer) *CashFlowHandler {
	return &CashFlowHandler{cashFlowService: cashFlowService, auditService: auditService}
}

// CreateEntryRequest represents the request payload for recording a ledger entry.
type CreateEntryRequest struct {
	CategoryID  *uint                 `json:"category_id"`
	Type        models.CashFlowType   `json:"type" binding:"required,cash_flow_type"`
	Status      models.CashFlowStatus `json:"status" binding:"omitempty,cash_flow_status"`
	Amount      int64                 `json:"amount" binding:"required,gt=0"`
	Description string                `json:"description" binding:"max=1000"`
	Date        time.Time             `json:"date"`
	Notes       string                `json:"notes" binding:"max=2000"`
}

// UpdateEntryRequest represents the request payload for updating a ledger entry.
type UpdateEntryRequest struct {
	CategoryID  *uint                  `json:"category_id"`
	Status      *models.CashFlowStatus `json:"status" binding:"omitempty,cash_flow_status"`
	Amount      *int64                 `json:"amount" binding:"omitempty,gt=0"`
	Description string                 `json:"description" binding:"max=1000"`
	Date        *time.Time             `json:"date"`
	Notes       *string                `json:"notes"`
}

// CreateEntry handles recording a money movement.
// @Summary     Record a ledger entry
// @Description Record an income or expense movement in the project ledger
// @Tags        cash-flow
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                true "Project ID"
// @Param       request body CreateEntryRequest true "Entry details"
// @Success     201 {object} models.CashFlowEntry "Entry recorded"
// @Failure     400 {object} ErrorResponse "Invalid input or legacy type on a v2 project"
// @Failure     404 {object} ErrorResponse "Project or category not found"
// @Router      /projects/{id}/cash-flow [post]
func (h *CashFlowHandler) CreateEntry(c *gin.Context) {
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

	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.cashFlowService.CreateEntry(
		userID, projectID, req.CategoryID, req.Type, req.Status, req.Amount, req.Description, req.Date, req.Notes,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, projectID, "CREATE_ENTRY", "cash_flow_entry", entry.ID, c.ClientIP(),
		map[string]interface{}{"type": string(req.Type), "amount": req.Amount})

	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// GetEntries handles listing a project's ledger entries.
// @Summary     Get ledger entries
// @Description Get a paginated, filtered list of a project's cash-flow entries
// @Tags        cash-flow
// @Produce     json
// @Security    BearerAuth
// @Param       id          path  int    true  "Project ID"
// @Param       type        query string false "Filter by entry type"
// @Param       status      query string false "Filter by status"
// @Param       category_id query int    false "Filter by category"
// @Param       from        query string false "Filter from date (RFC 3339)"
// @Param       to          query string false "Filter to date (RFC 3339)"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.CashFlowEntry] "Paginated entries"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/cash-flow [get]
func (h *CashFlowHandler) GetEntries(c *gin.Context) {
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

	filter, err := parseCashFlowFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.cashFlowService.GetProjectEntries(userID, projectID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseCashFlowFilter(c *gin.Context) (services.CashFlowFilter, error) {
	var filter services.CashFlowFilter

	if v := c.Query("type"); v != "" {
		t := models.CashFlowType(v)
		if !t.IsExpense() && !t.IsIncome() {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid type filter")
		}
		filter.Type = &t
	}
	if v := c.Query("status"); v != "" {
		switch s := models.CashFlowStatus(v); s {
		case models.CashFlowStatusPaid, models.CashFlowStatusPending, models.CashFlowStatusAwaitingApproval:
			filter.Status = &s
		default:
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid status filter")
		}
	}
	if v := c.Query("category_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid category_id filter")
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}
	if v := c.Query("from"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "from must be RFC 3339")
		}
		filter.FromDate = &from
	}
	if v := c.Query("to"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "to must be RFC 3339")
		}
		filter.ToDate = &to
	}

	return filter, nil
}

// GetEntry handles retrieving a specific ledger entry.
// @Summary     Get entry by ID
// @Description Get a specific cash-flow entry
// @Tags        cash-flow
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Entry ID"
// @Success     200 {object} models.CashFlowEntry "Entry details"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Router      /cash-flow/{id} [get]
func (h *CashFlowHandler) GetEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.cashFlowService.GetEntryByID(userID, entryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// UpdateEntry handles updating a hand-recorded ledger entry.
// @Summary     Update entry
// @Description Update a cash-flow entry not generated by a purchase order
// @Tags        cash-flow
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                true "Entry ID"
// @Param       request body UpdateEntryRequest true "Updated entry details"
// @Success     200 {object} models.CashFlowEntry "Updated entry"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     409 {object} ErrorResponse "Entry is managed by a purchase order"
// @Router      /cash-flow/{id} [put]
func (h *CashFlowHandler) UpdateEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.cashFlowService.UpdateEntry(
		userID, entryID, req.CategoryID, req.Status, req.Amount, req.Description, req.Date, req.Notes,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, entry.ProjectID, "UPDATE_ENTRY", "cash_flow_entry", entry.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// DeleteEntry handles deleting a hand-recorded ledger entry.
// @Summary     Delete entry
// @Description Delete a cash-flow entry not generated by a purchase order
// @Tags        cash-flow
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Entry ID"
// @Success     200 {object} MessageResponse "Entry deleted"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     409 {object} ErrorResponse "Entry is managed by a purchase order"
// @Router      /cash-flow/{id} [delete]
func (h *CashFlowHandler) DeleteEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.cashFlowService.DeleteEntry(userID, entryID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, 0, "DELETE_ENTRY", "cash_flow_entry", entryID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted successfully"})
}
