package entity

import "time"

// Notification kinds. The kind selects the title/message template and
// the metadata shape.
const (
	KindTaskDueSoon   = "task_due_soon"
	KindTaskOverdue   = "task_overdue"
	KindTaskAssigned  = "task_assigned"
	KindTaskCompleted = "task_completed"
)

type Notification struct {
	ID        int64                  `json:"id"`
	UserID    string                 `json:"user_id"`
	Type      string                 `json:"notification_type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Metadata  map[string]interface{} `json:"metadata"`
	ReadAt    *time.Time             `json:"read_at"`
	CreatedAt time.Time              `json:"created_at"`
}
