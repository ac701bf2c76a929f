package models

import "time"

// CashFlowType represents the type of a cash-flow entry. The addition_*
// values are the legacy extension for post-contract variations; projects
// on the financials_v2 system never create them.
type CashFlowType string

const (
	CashFlowTypeIncome          CashFlowType = "income"
	CashFlowTypeExpense         CashFlowType = "expense"
	CashFlowTypeAdditionIncome  CashFlowType = "addition_income"
	CashFlowTypeAdditionExpense CashFlowType = "addition_expense"
)

// IsExpense reports whether the type counts against spending rollups.
func (t CashFlowType) IsExpense() bool {
	return t == CashFlowTypeExpense || t == CashFlowTypeAdditionExpense
}

// IsIncome reports whether the type counts toward received income.
func (t CashFlowType) IsIncome() bool {
	return t == CashFlowTypeIncome || t == CashFlowTypeAdditionIncome
}

// IsLegacy reports whether the type exists only in the v1 model.
func (t CashFlowType) IsLegacy() bool {
	return t == CashFlowTypeAdditionIncome || t == CashFlowTypeAdditionExpense
}

// CashFlowStatus represents the settlement state of an entry.
// awaiting_approval exists only in the v1 model.
type CashFlowStatus string

const (
	CashFlowStatusPaid             CashFlowStatus = "paid"
	CashFlowStatusPending          CashFlowStatus = "pending"
	CashFlowStatusAwaitingApproval CashFlowStatus = "awaiting_approval"
)

// CashFlowEntry represents an atomic recorded money movement in a
// project's ledger. Entries generated by paying a purchase order carry
// the order's id in SourcePurchaseOrderID and are managed exclusively
// through the order's lifecycle.
type CashFlowEntry struct {
	Base
	ProjectID   uint           `gorm:"not null;index" json:"project_id"`
	CategoryID  *uint          `gorm:"index" json:"category_id,omitempty"`
	Type        CashFlowType   `gorm:"not null" json:"type"`
	Status      CashFlowStatus `gorm:"not null;default:'paid'" json:"status"`
	Amount      int64          `gorm:"type:bigint;not null" json:"amount"`
	Description string         `json:"description"`
	Date        time.Time      `gorm:"not null" json:"date"`
	Notes       string         `json:"notes,omitempty"`

	// Nullable back-reference to the purchase order that generated this
	// entry. Replaces the old notes-field id-prefix fingerprint.
	SourcePurchaseOrderID *uint `gorm:"index" json:"source_purchase_order_id,omitempty"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
