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

// PurchaseOrderHandler handles purchase order lifecycle requests.
type PurchaseOrderHandler struct {
	orderService services.PurchaseOrderServicer
	auditService services.AuditServicer
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler.
func NewPurchaseOrderHandler(orderService services.PurchaseOrderServicer, auditService services.AuditServicer) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orderService: orderService, auditService: auditService}
}

// CreateOrderRequest represents the request payload for creating a purchase order.
type CreateOrderRequest struct {
	CategoryID           uint                 `json:"category_id" binding:"required"`
	SupplierName         string               `json:"supplier_name" binding:"required,min=1,max=200"`
	PONumber             string               `json:"po_number" binding:"max=100"`
	Description          string               `json:"description" binding:"max=1000"`
	TotalAmount          int64                `json:"total_amount" binding:"required,gt=0"`
	ExpectedDeliveryDate *time.Time           `json:"expected_delivery_date"`
	Paid                 bool                 `json:"paid"`
	PaymentMethod        models.PaymentMethod `json:"payment_method" binding:"omitempty,payment_method"`
	PaymentReference     string               `json:"payment_reference" binding:"max=200"`
}

// UpdateOrderRequest represents the request payload for updating an order.
type UpdateOrderRequest struct {
	SupplierName         string     `json:"supplier_name" binding:"omitempty,min=1,max=200"`
	PONumber             *string    `json:"po_number"`
	Description          *string    `json:"description"`
	TotalAmount          *int64     `json:"total_amount" binding:"omitempty,gt=0"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date"`
}

// PayOrderRequest represents the request payload for settling an order.
type PayOrderRequest struct {
	PaymentMethod    models.PaymentMethod `json:"payment_method" binding:"omitempty,payment_method"`
	PaymentReference string               `json:"payment_reference" binding:"max=200"`
}

// CreateOrder handles the creation of a purchase order.
// @Summary     Create a purchase order
// @Description Create a purchase order commitment, optionally recorded as already paid
// @Tags        purchase-orders
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                true "Project ID"
// @Param       request body CreateOrderRequest true "Order details"
// @Success     201 {object} models.PurchaseOrder "Order created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Project or category not found"
// @Router      /projects/{id}/purchase-orders [post]
func (h *PurchaseOrderHandler) CreateOrder(c *gin.Context) {
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

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	order, err := h.orderService.CreateOrder(userID, services.CreateOrderInput{
		ProjectID:            projectID,
		CategoryID:           req.CategoryID,
		SupplierName:         req.SupplierName,
		PONumber:             req.PONumber,
		Description:          req.Description,
		TotalAmount:          req.TotalAmount,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		Paid:                 req.Paid,
		PaymentMethod:        req.PaymentMethod,
		PaymentReference:     req.PaymentReference,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, projectID, "CREATE_ORDER", "purchase_order", order.ID, c.ClientIP(),
		map[string]interface{}{"supplier": req.SupplierName, "total_amount": req.TotalAmount})

	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// GetOrders handles listing a project's purchase orders.
// @Summary     Get purchase orders
// @Description Get a paginated, filtered list of a project's purchase orders
// @Tags        purchase-orders
// @Produce     json
// @Security    BearerAuth
// @Param       id              path  int    true  "Project ID"
// @Param       category_id     query int    false "Filter by category"
// @Param       delivery_status query string false "Filter by delivery status (pending, delivered)"
// @Param       payment_status  query string false "Filter by payment status (unpaid, paid)"
// @Param       page            query int    false "Page number (default 1)"
// @Param       page_size       query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.PurchaseOrder] "Paginated orders"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/purchase-orders [get]
func (h *PurchaseOrderHandler) GetOrders(c *gin.Context) {
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

	filter, err := parseOrderFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.orderService.GetProjectOrders(userID, projectID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseOrderFilter(c *gin.Context) (services.OrderFilter, error) {
	var filter services.OrderFilter

	if v := c.Query("category_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid category_id filter")
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}
	if v := c.Query("delivery_status"); v != "" {
		switch s := models.DeliveryStatus(v); s {
		case models.DeliveryStatusPending, models.DeliveryStatusDelivered:
			filter.DeliveryStatus = &s
		default:
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid delivery_status filter")
		}
	}
	if v := c.Query("payment_status"); v != "" {
		switch s := models.PaymentStatus(v); s {
		case models.PaymentStatusUnpaid, models.PaymentStatusPaid:
			filter.PaymentStatus = &s
		default:
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid payment_status filter")
		}
	}

	return filter, nil
}

// GetOrder handles retrieving a specific purchase order.
// @Summary     Get order by ID
// @Description Get a specific purchase order with its derived comprehensive status
// @Tags        purchase-orders
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Order ID"
// @Success     200 {object} models.PurchaseOrder "Order details"
// @Failure     404 {object} ErrorResponse "Order not found"
// @Router      /purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetOrder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	orderID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	order, err := h.orderService.GetOrderByID(userID, orderID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order, "comprehensive_status": order.Comprehensive()})
}

// UpdateOrder handles updating an order's commercial fields.
// @Summary     Update order
// @Description Update a purchase order's commercial fields
// @Tags        purchase-orders
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                true "Order ID"
// @Param       request body UpdateOrderRequest true "Updated order details"
// @Success     200 {object} models.PurchaseOrder "Updated order"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Order not found"
// @Router      /purchase-orders/{id} [put]
func (h *PurchaseOrderHandler) UpdateOrder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	orderID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	order, err := h.orderService.UpdateOrder(userID, orderID, services.UpdateOrderInput{
		SupplierName:         req.SupplierName,
		PONumber:             req.PONumber,
		Description:          req.Description,
		TotalAmount:          req.TotalAmount,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, order.ProjectID, "UPDATE_ORDER", "purchase_order", order.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// MarkDelivered handles marking an order as delivered.
// @Summary     Mark order delivered
// @Description Mark a purchase order as delivered. Repeating the call re-stamps the delivery date.
// @Tags        purchase-orders
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Order ID"
// @Success     200 {object} models.PurchaseOrder "Updated order"
// @Failure     404 {object} ErrorResponse "Order not found"
// @Router      /purchase-orders/{id}/deliver [post]
func (h *PurchaseOrderHandler) MarkDelivered(c *gin.Context) {
	h.transition(c, "MARK_DELIVERED", func(userID, orderID uint) (*models.PurchaseOrder, error) {
		return h.orderService.MarkDelivered(userID, orderID)
	})
}

// UndoDelivered handles reverting an order's delivery.
// @Summary     Undo order delivery
// @Description Revert a purchase order to pending delivery
// @Tags        purchase-orders
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Order ID"
// @Success     200 {object} models.PurchaseOrder "Updated order"
// @Failure     404 {object} ErrorResponse "Order not found"
// @Router      /purchase-orders/{id}/undeliver [post]
func (h *PurchaseOrderHandler) UndoDelivered(c *gin.Context) {
	h.transition(c, "UNDO_DELIVERED", func(userID, orderID uint) (*models.PurchaseOrder, error) {
		return h.orderService.UndoDelivered(userID, orderID)
	})
}

// MarkPaid handles settling an order. Paying creates a matching ledger
// expense in the same transaction.
// @Summary     Mark order paid
// @Description Settle a purchase order, generating a paid expense in the project ledger
// @Tags        purchase-orders
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int             true  "Order ID"
// @Param       request body PayOrderRequest false "Payment details"
// @Success     200 {object} models.PurchaseOrder "Updated order"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Order not found"
// @Router      /purchase-orders/{id}/pay [post]
func (h *PurchaseOrderHandler) MarkPaid(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	orderID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PayOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	order, err := h.orderService.MarkPaid(userID, orderID, req.PaymentMethod, req.PaymentReference)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, order.ProjectID, "MARK_PAID", "purchase_order", order.ID, c.ClientIP(),
		map[string]interface{}{"paid_amount": order.PaidAmount})

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// UndoPaid handles reverting an order's payment, removing the generated
// ledger entry.
// @Summary     Undo order payment
// @Description Revert a purchase order to unpaid and remove its generated ledger entry
// @Tags        purchase-orders
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Order ID"
// @Success     200 {object} models.PurchaseOrder "Updated order"
// @Failure     404 {object} ErrorResponse "Order not found"
// @Router      /purchase-orders/{id}/unpay [post]
func (h *PurchaseOrderHandler) UndoPaid(c *gin.Context) {
	h.transition(c, "UNDO_PAID", func(userID, orderID uint) (*models.PurchaseOrder, error) {
		return h.orderService.UndoPaid(userID, orderID)
	})
}

func (h *PurchaseOrderHandler) transition(c *gin.Context, action string, fn func(userID, orderID uint) (*models.PurchaseOrder, error)) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	orderID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	order, err := fn(userID, orderID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, order.ProjectID, action, "purchase_order", order.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// DeleteOrder handles deleting a purchase order.
// @Summary     Delete order
// @Description Permanently delete a purchase order. A ledger entry generated by the order is kept but detached.
// @Tags        purchase-orders
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Order ID"
// @Success     200 {object} MessageResponse "Order deleted"
// @Failure     404 {object} ErrorResponse "Order not found"
// @Router      /purchase-orders/{id} [delete]
func (h *PurchaseOrderHandler) DeleteOrder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	orderID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	detached, err := h.orderService.DeleteOrder(userID, orderID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, 0, "DELETE_ORDER", "purchase_order", orderID, c.ClientIP(),
		map[string]interface{}{"detached_entry": detached})

	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully", "detached_entry": detached})
}
