package models

import "time"

// KanbanStage is a column in the order-status board. Stage ids are short
// slugs ("pending", "in_progress") and double as Order.Status values.
type KanbanStage struct {
	ID                 string    `gorm:"primaryKey" json:"id"`
	Name               string    `gorm:"not null" json:"name"`
	SortOrder          int       `gorm:"not null;column:sort_order" json:"order"`
	Color              string    `json:"color"`
	TextColor          string    `json:"text_color"`
	TriggersProduction bool      `gorm:"not null;default:false" json:"triggers_production"` // entering this stage may create a production job
	ProductionStageID  *string   `json:"production_stage_id"` // explicit bridge into the production catalog; nil falls back to name matching
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName specifies the table name for the KanbanStage model
func (KanbanStage) TableName() string {
	return "kanban_stages"
}

// ProductionStage is a column in the manufacturing board. Independent
// namespace from KanbanStage; jobs reference these via ProductionJob.StageID.
type ProductionStage struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	SortOrder int       `gorm:"not null;column:sort_order" json:"order"`
	Color     string    `json:"color"`
	TextColor string    `json:"text_color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the ProductionStage model
func (ProductionStage) TableName() string {
	return "production_stages"
}
