package usecase

import (
	"fmt"
	"time"

	"taskmaster/internal/entity"
	"taskmaster/internal/realtime"
	"taskmaster/internal/repo/persistent"
	"taskmaster/pkg/logger"
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 100
)

type NotificationUseCase interface {
	NotifyTaskAssigned(userID, taskID, title string) (*entity.Notification, error)
	NotifyTaskCompleted(userID, taskID, title string) (*entity.Notification, error)
	NotifyTaskDueSoon(userID, taskID, title string, hoursUntilDue int64) (*entity.Notification, error)
	NotifyTaskOverdue(userID, taskID, title string) (*entity.Notification, error)
	GetNotifications(userID string, limit, offset int) ([]entity.Notification, int64, error)
	UnreadCount(userID string) (int64, error)
	MarkAsRead(userID string, ids []int64) (int64, error)
}

type notificationUseCase struct {
	notificationRepo persistent.NotificationRepository
	bus              *realtime.Bus
	logger           *logger.Logger
}

func NewNotificationUseCase(notificationRepo persistent.NotificationRepository, bus *realtime.Bus, logger *logger.Logger) NotificationUseCase {
	return &notificationUseCase{
		notificationRepo: notificationRepo,
		bus:              bus,
		logger:           logger,
	}
}

func (uc *notificationUseCase) NotifyTaskAssigned(userID, taskID, title string) (*entity.Notification, error) {
	return uc.send(userID, entity.KindTaskAssigned,
		"New Task Assigned",
		fmt.Sprintf("'%s' has been assigned to you", title),
		map[string]interface{}{"task_id": taskID},
	)
}

func (uc *notificationUseCase) NotifyTaskCompleted(userID, taskID, title string) (*entity.Notification, error) {
	return uc.send(userID, entity.KindTaskCompleted,
		"Task Completed",
		fmt.Sprintf("'%s' has been marked as completed", title),
		map[string]interface{}{"task_id": taskID},
	)
}

func (uc *notificationUseCase) NotifyTaskDueSoon(userID, taskID, title string, hoursUntilDue int64) (*entity.Notification, error) {
	return uc.send(userID, entity.KindTaskDueSoon,
		"Task Due Soon",
		fmt.Sprintf("'%s' is due in %d hours", title, hoursUntilDue),
		map[string]interface{}{"task_id": taskID, "hours_until_due": hoursUntilDue},
	)
}

func (uc *notificationUseCase) NotifyTaskOverdue(userID, taskID, title string) (*entity.Notification, error) {
	return uc.send(userID, entity.KindTaskOverdue,
		"Task Overdue",
		fmt.Sprintf("'%s' is now overdue", title),
		map[string]interface{}{"task_id": taskID},
	)
}

// send persists the notification first, then publishes it. The row is
// the source of truth; live delivery is best effort on top of it.
func (uc *notificationUseCase) send(userID, kind, title, message string, metadata map[string]interface{}) (*entity.Notification, error) {
	notification, err := uc.notificationRepo.Create(userID, kind, title, message, metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to store notification: %w", err)
	}

	uc.bus.Publish(realtime.Event{UserID: userID, Notification: notification})
	uc.logger.Info("Notification %d (%s) sent to user %s", notification.ID, kind, userID)
	return notification, nil
}

func (uc *notificationUseCase) GetNotifications(userID string, limit, offset int) ([]entity.Notification, int64, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}
	if offset < 0 {
		offset = 0
	}

	notifications, err := uc.notificationRepo.ListByUser(userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread, err := uc.notificationRepo.CountUnread(userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return notifications, unread, nil
}

func (uc *notificationUseCase) UnreadCount(userID string) (int64, error) {
	count, err := uc.notificationRepo.CountUnread(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (uc *notificationUseCase) MarkAsRead(userID string, ids []int64) (int64, error) {
	updated, err := uc.notificationRepo.MarkRead(ids, userID, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return updated, nil
}
