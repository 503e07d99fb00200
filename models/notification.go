package models

import "time"

// Notification types
const (
	NotificationOrderCreated  = "order_created"
	NotificationOrderUpdated  = "order_updated"
	NotificationStatusChanged = "status_changed"
	NotificationCommentAdded  = "comment_added"
	NotificationOrderAssigned = "order_assigned"
	NotificationSystem        = "system"
)

// Notification is a best-effort message row for a user. Inserted by the
// dispatcher, read and cleared by the notification UI.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Type      string    `gorm:"not null" json:"type"`
	Title     string    `gorm:"not null" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	Data      string    `gorm:"type:text" json:"data"` // opaque JSON payload
	IsRead    bool      `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}
