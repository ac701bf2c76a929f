package models

import "time"

// DeliveryStatus represents the delivery axis of a purchase order.
type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "pending"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
)

// PaymentStatus represents the payment axis of a purchase order.
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

// PaymentMethod represents how a purchase order was settled.
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCheck        PaymentMethod = "check"
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCredit       PaymentMethod = "credit"
)

// OrderStatus is the legacy single-field status kept in sync with the
// payment axis for backward compatibility with older consumers.
type OrderStatus string

const (
	OrderStatusOrdered OrderStatus = "ordered"
	OrderStatusPaid    OrderStatus = "paid"
)

// ComprehensiveStatus is the derived display status combining both axes.
type ComprehensiveStatus string

const (
	StatusCompleted                ComprehensiveStatus = "completed"
	StatusPaidAwaitingDelivery     ComprehensiveStatus = "paid_awaiting_delivery"
	StatusDeliveredAwaitingPayment ComprehensiveStatus = "delivered_awaiting_payment"
	StatusInProgress               ComprehensiveStatus = "in_progress"
)

// PurchaseOrder represents a procurement commitment: money promised to a
// supplier that is not yet (fully) paid. Delivery and payment are
// independent axes with no forbidden combination.
type PurchaseOrder struct {
	Base
	ProjectID  uint `gorm:"not null;index" json:"project_id"`
	CategoryID uint `gorm:"not null;index" json:"category_id"`

	SupplierName string `gorm:"not null" json:"supplier_name"`
	PONumber     string `json:"po_number,omitempty"`
	Description  string `json:"description"`
	TotalAmount  int64  `gorm:"type:bigint;not null" json:"total_amount"`
	PaidAmount   int64  `gorm:"type:bigint;not null;default:0" json:"paid_amount"`

	DeliveryStatus       DeliveryStatus `gorm:"not null;default:'pending'" json:"delivery_status"`
	ExpectedDeliveryDate *time.Time     `json:"expected_delivery_date,omitempty"`
	ActualDeliveryDate   *time.Time     `json:"actual_delivery_date,omitempty"`

	PaymentStatus    PaymentStatus `gorm:"not null;default:'unpaid'" json:"payment_status"`
	PaymentDate      *time.Time    `json:"payment_date,omitempty"`
	PaymentMethod    PaymentMethod `json:"payment_method,omitempty"`
	PaymentReference string        `json:"payment_reference,omitempty"`

	// Legacy mirror of the payment axis.
	Status OrderStatus `gorm:"not null;default:'ordered'" json:"status"`

	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// CommittedAmount returns the order's open exposure. A paid order
// contributes nothing to committed costs regardless of how PaidAmount
// was accumulated.
func (po *PurchaseOrder) CommittedAmount() int64 {
	if po.PaymentStatus == PaymentStatusPaid {
		return 0
	}
	return po.TotalAmount - po.PaidAmount
}

// Comprehensive returns the derived display status, in priority order.
func (po *PurchaseOrder) Comprehensive() ComprehensiveStatus {
	paid := po.PaymentStatus == PaymentStatusPaid
	delivered := po.DeliveryStatus == DeliveryStatusDelivered
	switch {
	case paid && delivered:
		return StatusCompleted
	case paid:
		return StatusPaidAwaitingDelivery
	case delivered:
		return StatusDeliveredAwaitingPayment
	default:
		return StatusInProgress
	}
}
