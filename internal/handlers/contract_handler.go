package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "siteledger/internal/errors"
	"siteledger/internal/services"
)

// ContractHandler handles contract item and financials requests.
type ContractHandler struct {
	contractService services.ContractServicer
	auditService    services.AuditServicer
}

// NewContractHandler creates a new ContractHandler.
func NewContractHandler(contractService services.ContractServicer, auditService services.AuditServicer) *ContractHandler {
	return &ContractHandler{contractService: contractService, auditService: auditService}
}

// CreateContractItemRequest represents the request payload for creating a contract item.
type CreateContractItemRequest struct {
	CategoryID     uint  `json:"category_id" binding:"required"`
	ContractAmount int64 `json:"contract_amount" binding:"gte=0"`
}

// UpdateContractItemRequest represents the request payload for updating a contract item.
type UpdateContractItemRequest struct {
	ContractAmount int64 `json:"contract_amount" binding:"gte=0"`
}

// CreateContractItem handles creating a contract line.
// @Summary     Create contract item
// @Description Set the contracted amount for a category. One item per category per project.
// @Tags        contracts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                       true "Project ID"
// @Param       request body CreateContractItemRequest true "Contract item details"
// @Success     201 {object} models.ContractItem "Contract item created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Project or category not found"
// @Failure     409 {object} ErrorResponse "Category already has a contract item"
// @Router      /projects/{id}/contract-items [post]
func (h *ContractHandler) CreateContractItem(c *gin.Context) {
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

	var req CreateContractItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	item, err := h.contractService.CreateContractItem(userID, projectID, req.CategoryID, req.ContractAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, projectID, "CREATE_CONTRACT_ITEM", "contract_item", item.ID, c.ClientIP(),
		map[string]interface{}{"category_id": req.CategoryID, "contract_amount": req.ContractAmount})

	c.JSON(http.StatusCreated, gin.H{"contract_item": item})
}

// GetContractItems handles listing a project's contract items.
// @Summary     Get contract items
// @Description Get all contract items for a project
// @Tags        contracts
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Project ID"
// @Success     200 {array}  models.ContractItem "Contract items"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/contract-items [get]
func (h *ContractHandler) GetContractItems(c *gin.Context) {
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

	items, err := h.contractService.GetContractItems(userID, projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contract_items": items})
}

// UpdateContractItem handles changing a contract item amount.
// @Summary     Update contract item
// @Description Update the contracted amount of an existing contract item
// @Tags        contracts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                       true "Contract item ID"
// @Param       request body UpdateContractItemRequest true "Updated amount"
// @Success     200 {object} models.ContractItem "Updated contract item"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Contract item not found"
// @Router      /contract-items/{id} [put]
func (h *ContractHandler) UpdateContractItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateContractItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	item, err := h.contractService.UpdateContractItem(userID, itemID, req.ContractAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, item.ProjectID, "UPDATE_CONTRACT_ITEM", "contract_item", item.ID, c.ClientIP(),
		map[string]interface{}{"contract_amount": req.ContractAmount})

	c.JSON(http.StatusOK, gin.H{"contract_item": item})
}

// DeleteContractItem handles deleting a contract item.
// @Summary     Delete contract item
// @Description Delete a contract item. The category's ledger entries are unaffected.
// @Tags        contracts
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Contract item ID"
// @Success     200 {object} MessageResponse "Contract item deleted"
// @Failure     404 {object} ErrorResponse "Contract item not found"
// @Router      /contract-items/{id} [delete]
func (h *ContractHandler) DeleteContractItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.contractService.DeleteContractItem(userID, itemID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, 0, "DELETE_CONTRACT_ITEM", "contract_item", itemID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Contract item deleted successfully"})
}

// GetFinancials handles the per-project profit view.
// @Summary     Get project financials
// @Description Get per-contract-item expenses, income, and expected profit with status classification
// @Tags        contracts
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Project ID"
// @Success     200 {object} services.ProjectFinancials "Financials"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/financials [get]
func (h *ContractHandler) GetFinancials(c *gin.Context) {
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

	financials, err := h.contractService.GetProjectFinancials(userID, projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, financials)
}
