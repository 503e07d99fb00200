package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is an entry in an order's conversation thread between the dentist
// and the lab team. The transition engine inspects the last comment's author
// when deciding deadline assignment.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	OrderID   uint           `gorm:"not null;index" json:"order_id"`
	Order     Order          `gorm:"foreignKey:OrderID" json:"-"`
	AuthorID  uint           `gorm:"not null;index" json:"author_id"`
	Author    User           `gorm:"foreignKey:AuthorID" json:"author"`
	Text      string         `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Comment model
func (Comment) TableName() string {
	return "order_comments"
}
