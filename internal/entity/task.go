package entity

// Task is one item of the operator task list.
type Task struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Title     string `gorm:"not null" json:"title"`
	CreatedAt int64  `gorm:"not null" json:"created_at"`
	DoneAt    *int64 `json:"done_at,omitempty"`
}

// TableName specifies the table name for the Task model.
func (Task) TableName() string {
	return "tasks"
}
