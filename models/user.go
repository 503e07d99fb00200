package models

import (
	"time"

	"gorm.io/gorm"
)

// TeamRoles are the back-office roles that receive broad notification fan-out.
// Dentists (the order creators) are notified individually, never as a group.
var TeamRoles = []string{"administrator", "admin", "manager", "tecnico", "atendente"}

// User represents a user in the system (dentist or lab team member)
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Auth0ID   string         `gorm:"uniqueIndex;not null" json:"auth0_id"` // Auth0 user ID (from 'sub' claim)
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Company   string         `json:"company"` // clinic or lab name
	Role      string         `gorm:"not null;default:'dentist'" json:"role"` // dentist, administrator, admin, manager, tecnico, atendente
	IsActive  bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsTeamRole reports whether the user's role belongs to the lab team.
func (u *User) IsTeamRole() bool {
	for _, r := range TeamRoles {
		if u.Role == r {
			return true
		}
	}
	return false
}
