package models

// ContractItem is a v2 financials line: what the client's contract
// allocates to a category. Expenses, income, and expected profit are
// derived at read time, never stored.
type ContractItem struct {
	Base
	ProjectID      uint  `gorm:"not null;uniqueIndex:idx_contract_project_category" json:"project_id"`
	CategoryID     uint  `gorm:"not null;uniqueIndex:idx_contract_project_category" json:"category_id"`
	ContractAmount int64 `gorm:"type:bigint;not null" json:"contract_amount"`

	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
