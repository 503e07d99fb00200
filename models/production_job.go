package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductionJob tracks an order on the manufacturing floor.
// At most one active job exists per order; the partial unique index backs up
// the upsert convention in the transition engine.
type ProductionJob struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	OrderID           uint            `gorm:"not null;index:idx_jobs_active_order,unique,where:is_active" json:"order_id"`
	Order             Order           `gorm:"foreignKey:OrderID" json:"-"`
	StageID           string          `gorm:"not null;default:'iniciado';index" json:"stage_id"` // Production stage id
	OperatorID        *uint           `gorm:"index" json:"operator_id"`
	OperatorName      string          `json:"operator_name"` // denormalized snapshot of the assignee
	WorkType          string          `json:"work_type"`
	Material          string          `json:"material"`
	EstimatedDelivery *time.Time      `json:"estimated_delivery"` // copied from the order at creation
	IsActive          bool            `gorm:"not null;default:true" json:"is_active"`
	Attachments       []JobAttachment `gorm:"foreignKey:JobID" json:"attachments,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	DeletedAt         gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for the ProductionJob model
func (ProductionJob) TableName() string {
	return "production_jobs"
}

// JobAttachment is a file attached to a production job (scans, models, photos)
type JobAttachment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	JobID       uint      `gorm:"not null;index" json:"job_id"`
	Name        string    `gorm:"not null" json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	S3Key       string    `gorm:"not null" json:"s3_key"`
	URL         string    `gorm:"-" json:"url,omitempty"` // computed, presigned URL
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for the JobAttachment model
func (JobAttachment) TableName() string {
	return "job_attachments"
}
