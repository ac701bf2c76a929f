package models

import "time"

// User represents an application user. Authentication is local
// (bcrypt + JWT); project access is granted through memberships.
type User struct {
	Base
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Phone       string     `json:"phone,omitempty"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	Projects    []Project       `gorm:"foreignKey:OwnerID" json:"projects,omitempty"`
	Memberships []ProjectMember `gorm:"foreignKey:UserID" json:"memberships,omitempty"`
}
