package persistent

import (
	"time"

	"gorm.io/gorm"

	"taskmaster/internal/entity"
	"taskmaster/internal/model"
)

type NotificationRepository interface {
	Create(userID, kind, title, message string, metadata map[string]interface{}) (*entity.Notification, error)
	ListByUser(userID string, limit, offset int) ([]entity.Notification, error)
	CountUnread(userID string) (int64, error)
	MarkRead(ids []int64, userID string, readAt time.Time) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(userID, kind, title, message string, metadata map[string]interface{}) (*entity.Notification, error) {
	notificationModel := &model.NotificationModel{
		UserID:   userID,
		Type:     kind,
		Title:    title,
		Message:  message,
		Metadata: model.JSONMap(metadata),
	}
	if err := r.db.Create(notificationModel).Error; err != nil {
		return nil, err
	}
	return ToNotificationEntity(notificationModel), nil
}

func (r *notificationRepository) ListByUser(userID string, limit, offset int) ([]entity.Notification, error) {
	var notificationModels []model.NotificationModel
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notificationModels).Error
	if err != nil {
		return nil, err
	}
	return ToNotificationEntities(notificationModels), nil
}

func (r *notificationRepository) CountUnread(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.NotificationModel{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}

// MarkRead flips the given notifications to read in a single guarded
// update. Rows owned by another user or already read are untouched, so
// the call is idempotent and safe against foreign ids.
func (r *notificationRepository) MarkRead(ids []int64, userID string, readAt time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Model(&model.NotificationModel{}).
		Where("id IN ? AND user_id = ? AND read_at IS NULL", ids, userID).
		Update("read_at", readAt)
	return result.RowsAffected, result.Error
}
