package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "siteledger/internal/errors"
	"siteledger/internal/models"
	"siteledger/internal/pagination"
)

// purchaseOrderService handles the purchase order lifecycle. Payment
// transitions touch both the order row and the project ledger, so they
// always run inside one database transaction.
type purchaseOrderService struct {
	db       *gorm.DB
	projects ProjectServicer
}

// NewPurchaseOrderService creates a new PurchaseOrderServicer.
func NewPurchaseOrderService(db *gorm.DB, projects ProjectServicer) PurchaseOrderServicer {
	return &purchaseOrderService{db: db, projects: projects}
}

// CreateOrder records a new procurement commitment. Orders default to
// pending delivery and unpaid; an order created already-paid gets its
// ledger entry in the same transaction.
func (s *purchaseOrderService) CreateOrder(userID uint, in CreateOrderInput) (*models.PurchaseOrder, error) {
	if in.SupplierName == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "supplier name is required")
	}
	if in.TotalAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "total amount must be greater than zero")
	}
	if in.CategoryID == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if err := s.projects.AuthorizeAccess(userID, in.ProjectID); err != nil {
		return nil, err
	}

	var category models.Category
	if err := s.db.Where("id = ? AND project_id = ?", in.CategoryID, in.ProjectID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	order := &models.PurchaseOrder{
		ProjectID:            in.ProjectID,
		CategoryID:           in.CategoryID,
		SupplierName:         in.SupplierName,
		PONumber:             in.PONumber,
		Description:          in.Description,
		TotalAmount:          in.TotalAmount,
		DeliveryStatus:       models.DeliveryStatusPending,
		ExpectedDeliveryDate: in.ExpectedDeliveryDate,
		PaymentStatus:        models.PaymentStatusUnpaid,
		Status:               models.OrderStatusOrdered,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if in.Paid {
			return s.settle(tx, order, in.PaymentMethod, in.PaymentReference)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetProjectOrders returns a paginated, filtered list of a project's orders.
func (s *purchaseOrderService) GetProjectOrders(userID, projectID uint, page pagination.PageRequest, filter OrderFilter) (*pagination.PageResponse[models.PurchaseOrder], error) {
	if err := s.projects.AuthorizeAccess(userID, projectID); err != nil {
		return nil, err
	}

	page.Defaults()
	base := s.db.Model(&models.PurchaseOrder{}).Where("project_id = ?", projectID)
	if filter.CategoryID != nil {
		base = base.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.DeliveryStatus != nil {
		base = base.Where("delivery_status = ?", *filter.DeliveryStatus)
	}
	if filter.PaymentStatus != nil {
		base = base.Where("payment_status = ?", *filter.PaymentStatus)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var orders []models.PurchaseOrder
	if err := base.Preload("Category").Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(orders, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetOrderByID returns an order if the user can access its project.
func (s *purchaseOrderService) GetOrderByID(userID, orderID uint) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	if err := s.db.Preload("Category").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.projects.AuthorizeAccess(userID, order.ProjectID); err != nil {
		return nil, apperrors.ErrOrderNotFound
	}
	return &order, nil
}

// UpdateOrder updates an order's commercial fields. The total cannot
// shrink below what has already been paid, and the expected delivery
// date is only meaningful while delivery is pending.
func (s *purchaseOrderService) UpdateOrder(userID, orderID uint, in UpdateOrderInput) (*models.PurchaseOrder, error) {
	order, err := s.GetOrderByID(userID, orderID)
	if err != nil {
		return nil, err
	}

	if in.TotalAmount != nil {
		if *in.TotalAmount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "total amount must be greater than zero")
		}
		if *in.TotalAmount < order.PaidAmount {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "total amount cannot be less than the paid amount")
		}
	}
	if in.ExpectedDeliveryDate != nil && order.DeliveryStatus == models.DeliveryStatusDelivered {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "expected delivery date can only be set while delivery is pending")
	}

	updates := make(map[string]interface{})
	if in.SupplierName != "" {
		updates["supplier_name"] = in.SupplierName
	}
	if in.PONumber != nil {
		updates["po_number"] = *in.PONumber
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.TotalAmount != nil {
		updates["total_amount"] = *in.TotalAmount
	}
	if in.ExpectedDeliveryDate != nil {
		updates["expected_delivery_date"] = in.ExpectedDeliveryDate
	}

	if len(updates) > 0 {
		if err := s.db.Model(order).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return order, nil
}

// MarkDelivered sets the delivery axis to delivered and stamps today.
// Calling it on an already-delivered order just re-stamps the date.
// Money is untouched.
func (s *purchaseOrderService) MarkDelivered(userID, orderID uint) (*models.PurchaseOrder, error) {
	order, err := s.GetOrderByID(userID, orderID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"delivery_status":      models.DeliveryStatusDelivered,
		"actual_delivery_date": &now,
	}
	if err := s.db.Model(order).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return order, nil
}

// UndoDelivered reverts the delivery axis to pending and clears the
// actual delivery date. The payment axis is independent, so undoing a
// delivery whose payment already happened is allowed.
func (s *purchaseOrderService) UndoDelivered(userID, orderID uint) (*models.PurchaseOrder, error) {
	order, err := s.GetOrderByID(userID, orderID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"delivery_status":      models.DeliveryStatusPending,
		"actual_delivery_date": nil,
	}
	if err := s.db.Model(order).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return order, nil
}

// MarkPaid pays the order in full: one ledger expense entry referencing
// the order, then the order's payment fields, in one transaction.
// Calling it on an already-paid order is a no-op.
func (s *purchaseOrderService) MarkPaid(userID, orderID uint, method models.PaymentMethod, reference string) (*models.PurchaseOrder, error) {
	order, err := s.GetOrderByID(userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return order, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.settle(tx, order, method, reference)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// settle creates the ledger entry for an order's full payment and flips
// the order's payment axis. Must run inside a transaction.
func (s *purchaseOrderService) settle(tx *gorm.DB, order *models.PurchaseOrder, method models.PaymentMethod, reference string) error {
	now := time.Now()
	categoryID := order.CategoryID

	entry := &models.CashFlowEntry{
		ProjectID:             order.ProjectID,
		CategoryID:            &categoryID,
		Type:                  models.CashFlowTypeExpense,
		Status:                models.CashFlowStatusPaid,
		Amount:                order.TotalAmount,
		Description:           paymentDescription(order),
		Date:                  now,
		SourcePurchaseOrderID: &order.ID,
	}
	if err := tx.Create(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	order.PaymentStatus = models.PaymentStatusPaid
	order.PaidAmount = order.TotalAmount
	order.PaymentDate = &now
	order.PaymentMethod = method
	order.PaymentReference = reference
	order.Status = models.OrderStatusPaid

	updates := map[string]interface{}{
		"payment_status":    models.PaymentStatusPaid,
		"paid_amount":       order.TotalAmount,
		"payment_date":      &now,
		"payment_method":    method,
		"payment_reference": reference,
		"status":            models.OrderStatusPaid,
	}
	if err := tx.Model(&models.PurchaseOrder{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// UndoPaid removes the ledger entry this order generated and reverts the
// payment axis, in one transaction. Calling it on an unpaid order is a
// no-op.
func (s *purchaseOrderService) UndoPaid(userID, orderID uint) (*models.PurchaseOrder, error) {
	order, err := s.GetOrderByID(userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus != models.PaymentStatusPaid {
		return order, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("source_purchase_order_id = ?", order.ID).
			Delete(&models.CashFlowEntry{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		updates := map[string]interface{}{
			"payment_status":    models.PaymentStatusUnpaid,
			"paid_amount":       0,
			"payment_date":      nil,
			"payment_method":    "",
			"payment_reference": "",
			"status":            models.OrderStatusOrdered,
		}
		if err := tx.Model(&models.PurchaseOrder{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.PaymentStatus = models.PaymentStatusUnpaid
	order.PaidAmount = 0
	order.PaymentDate = nil
	order.PaymentMethod = ""
	order.PaymentReference = ""
	order.Status = models.OrderStatusOrdered
	return order, nil
}

// DeleteOrder removes an order permanently. A paid order's generated
// ledger entry is kept because it records a real money movement; only
// its back-reference is cleared. Returns whether an entry was detached.
func (s *purchaseOrderService) DeleteOrder(userID, orderID uint) (bool, error) {
	order, err := s.GetOrderByID(userID, orderID)
	if err != nil {
		return false, err
	}

	var detached bool
	err = s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.CashFlowEntry{}).
			Where("source_purchase_order_id = ?", order.ID).
			Update("source_purchase_order_id", nil)
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		detached = result.RowsAffected > 0

		if err := tx.Unscoped().Delete(order).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return detached, nil
}

// paymentDescription builds the ledger entry description from the
// order's supplier, number, and description.
func paymentDescription(order *models.PurchaseOrder) string {
	desc := fmt.Sprintf("Supplier payment: %s", order.SupplierName)
	if order.PONumber != "" {
		desc += fmt.Sprintf(" (PO %s)", order.PONumber)
	}
	if order.Description != "" {
		desc += " - " + order.Description
	}
	return desc
}
