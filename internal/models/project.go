package models

// TrackingSystem selects which cost-tracking subsystem a project uses.
type TrackingSystem string

const (
	TrackingSystemBudgetV1     TrackingSystem = "budget_v1"
	TrackingSystemFinancialsV2 TrackingSystem = "financials_v2"
)

// MemberRole represents a member's role within a project.
type MemberRole string

const (
	MemberRoleOwner   MemberRole = "owner"
	MemberRoleManager MemberRole = "manager"
	MemberRoleViewer  MemberRole = "viewer"
)

// Project represents a construction project. All ledger entries, orders,
// budget lines, and documents are scoped to a project.
type Project struct {
	Base
	OwnerID     uint   `gorm:"not null;index" json:"owner_id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`

	Owner          User                   `gorm:"foreignKey:OwnerID" json:"-"`
	Members        []ProjectMember        `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	Categories     []Category             `gorm:"foreignKey:ProjectID" json:"categories,omitempty"`
	BudgetSettings *ProjectBudgetSettings `gorm:"foreignKey:ProjectID" json:"budget_settings,omitempty"`
}

// ProjectMember links a user to a project with a role. The phone number is
// kept per membership so external message bridges can resolve a sender to a
// project without touching the user record.
type ProjectMember struct {
	Base
	ProjectID uint       `gorm:"not null;uniqueIndex:idx_project_user" json:"project_id"`
	UserID    uint       `gorm:"not null;uniqueIndex:idx_project_user" json:"user_id"`
	Role      MemberRole `gorm:"not null;default:'viewer'" json:"role"`
	Phone     string     `json:"phone,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// ProjectBudgetSettings holds per-project cost-tracking configuration.
// At most one row exists per project.
type ProjectBudgetSettings struct {
	Base
	ProjectID uint           `gorm:"not null;uniqueIndex" json:"project_id"`
	System    TrackingSystem `gorm:"not null;default:'budget_v1'" json:"system"`
	Currency  string         `gorm:"not null;default:'USD'" json:"currency"`
}
