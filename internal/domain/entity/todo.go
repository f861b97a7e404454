package entity

import "time"

// Todo is a single task of the todo list.
type Todo struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Completed   bool      `json:"completed" gorm:"not null;index:idx_todos_completed_created_at,priority:1"`
	CreatedAt   time.Time `json:"createdAt" gorm:"not null;autoCreateTime;index:idx_todos_completed_created_at,priority:2,sort:desc"`
	UpdatedAt   time.Time `json:"updatedAt" gorm:"not null;autoUpdateTime"`
}

func (Todo) TableName() string {
	return "todos"
}
