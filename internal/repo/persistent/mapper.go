package persistent

import (
	"time"

	"taskmaster/internal/entity"
	"taskmaster/internal/model"
)

func ToUserEntity(m *model.UserModel) *entity.User {
	if m == nil {
		return nil
	}
	return &entity.User{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Password:  m.PasswordHash,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToUserModel(e *entity.User) *model.UserModel {
	if e == nil {
		return nil
	}
	return &model.UserModel{
		ID:           e.ID,
		Name:         e.Name,
		Email:        e.Email,
		PasswordHash: e.Password,
	}
}

func ToTaskEntity(m *model.TaskModel) *entity.Task {
	if m == nil {
		return nil
	}
	tags := []string(m.Tags)
	if tags == nil {
		tags = []string{}
	}
	return &entity.Task{
		ID:          m.ID,
		UserID:      m.UserID,
		Title:       m.Title,
		Description: m.Description,
		Status:      entity.TaskStatus(m.Status),
		Priority:    entity.TaskPriority(m.Priority),
		DueDate:     m.DueDate,
		Tags:        tags,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func ToTaskEntities(models []model.TaskModel) []entity.Task {
	tasks := make([]entity.Task, len(models))
	for i := range models {
		tasks[i] = *ToTaskEntity(&models[i])
	}
	return tasks
}

func ToNotificationEntity(m *model.NotificationModel) *entity.Notification {
	if m == nil {
		return nil
	}
	metadata := map[string]interface{}(m.Metadata)
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	var readAt *time.Time
	if m.ReadAt != nil {
		t := *m.ReadAt
		readAt = &t
	}
	return &entity.Notification{
		ID:        m.ID,
		UserID:    m.UserID,
		Type:      m.Type,
		Title:     m.Title,
		Message:   m.Message,
		Metadata:  metadata,
		ReadAt:    readAt,
		CreatedAt: m.CreatedAt,
	}
}

func ToNotificationEntities(models []model.NotificationModel) []entity.Notification {
	notifications := make([]entity.Notification, len(models))
	for i := range models {
		notifications[i] = *ToNotificationEntity(&models[i])
	}
	return notifications
}
