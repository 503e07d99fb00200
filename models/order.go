package models

import (
	"time"

	"gorm.io/gorm"
)

// Order represents a dental case submitted by a dentist.
// Status is a Kanban stage id; production tracking lives on ProductionJob.
type Order struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	ExternalID        string         `gorm:"uniqueIndex" json:"external_id"`           // legacy/external identifier
	OrderNumber       string         `gorm:"uniqueIndex;not null" json:"order_number"` // human code, e.g. COR-ZIR-0042
	PatientName       string         `gorm:"not null" json:"patient_name"`
	WorkType          string         `gorm:"not null" json:"work_type"`
	Material          string         `gorm:"not null" json:"material"`
	Notes             string         `gorm:"type:text" json:"notes"`
	Status            string         `gorm:"not null;default:'pending';index" json:"status"` // Kanban stage id
	AssignedTo        *uint          `gorm:"index" json:"assigned_to"`                       // nullable, lab technician
	Assignee          *User          `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
	CreatedBy         uint           `gorm:"not null;index" json:"created_by"`
	Creator           User           `gorm:"foreignKey:CreatedBy" json:"creator"`
	EstimatedDelivery *time.Time     `json:"estimated_delivery"`
	IsActive          bool           `gorm:"not null;default:true;index" json:"is_active"`
	Version           int            `gorm:"not null;default:1" json:"version"` // optimistic concurrency guard, incremented on every update
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
