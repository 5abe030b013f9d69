package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskModel struct {
	ID          string     `gorm:"column:id;type:uuid;primaryKey"`
	UserID      string     `gorm:"column:user_id;type:uuid;not null;index"`
	Title       string     `gorm:"column:title;type:varchar(120);not null"`
	Description string     `gorm:"column:description"`
	Status      string     `gorm:"column:status;type:varchar(20);default:'todo'"`
	Priority    string     `gorm:"column:priority;type:varchar(20);default:'med'"`
	DueDate     *time.Time `gorm:"column:due_date;index"`
	Tags        StringList `gorm:"column:tags;type:jsonb"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (TaskModel) TableName() string {
	return "tasks"
}

func (t *TaskModel) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
