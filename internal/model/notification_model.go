package model

import "time"

type NotificationModel struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    string     `gorm:"column:user_id;type:uuid;not null;index"`
	Type      string     `gorm:"column:notification_type;type:varchar(50);not null"`
	Title     string     `gorm:"column:title;not null"`
	Message   string     `gorm:"column:message;not null"`
	Metadata  JSONMap    `gorm:"column:metadata;type:jsonb"`
	ReadAt    *time.Time `gorm:"column:read_at"`
	CreatedAt time.Time  `gorm:"column:created_at"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}
