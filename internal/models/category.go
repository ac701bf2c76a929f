package models

// Category represents a spending bucket within a project. Budget lines
// (v1) and contract items (v2) allocate money to categories; ledger
// entries and purchase orders spend against them.
type Category struct {
	Base
	ProjectID   uint   `gorm:"not null;index" json:"project_id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`

	Entries        []CashFlowEntry `gorm:"foreignKey:CategoryID" json:"entries,omitempty"`
	PurchaseOrders []PurchaseOrder `gorm:"foreignKey:CategoryID" json:"purchase_orders,omitempty"`
}
