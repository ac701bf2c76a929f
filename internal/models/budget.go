package models

// CategoryBudget is a v1 budget line: the amount allocated to a category
// within a project. At most one line exists per project and category;
// the service refuses duplicates and points callers at the existing row.
type CategoryBudget struct {
	Base
	ProjectID      uint  `gorm:"not null;uniqueIndex:idx_budget_project_category" json:"project_id"`
	CategoryID     uint  `gorm:"not null;uniqueIndex:idx_budget_project_category" json:"category_id"`
	BudgetedAmount int64 `gorm:"type:bigint;not null" json:"budgeted_amount"`

	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
