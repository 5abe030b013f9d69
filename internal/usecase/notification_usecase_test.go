package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmaster/internal/entity"
	"taskmaster/internal/realtime"
	"taskmaster/pkg/logger"
)

func newNotificationFixture() (NotificationUseCase, *fakeNotificationRepo, *realtime.Subscription) {
	repo := newFakeNotificationRepo()
	bus := realtime.NewBus()
	sub := bus.Subscribe(16)
	return NewNotificationUseCase(repo, bus, logger.New()), repo, sub
}

func TestNotifyTaskDueSoonPersistsAndPublishes(t *testing.T) {
	uc, repo, sub := newNotificationFixture()

	notification, err := uc.NotifyTaskDueSoon("u1", "t1", "write report", 1)
	require.NoError(t, err)

	assert.Equal(t, entity.KindTaskDueSoon, notification.Type)
	assert.Equal(t, "Task Due Soon", notification.Title)
	assert.Equal(t, "'write report' is due in 1 hours", notification.Message)
	assert.Equal(t, "t1", notification.Metadata["task_id"])
	assert.Equal(t, int64(1), notification.Metadata["hours_until_due"])
	assert.Nil(t, notification.ReadAt)

	unread, err := repo.CountUnread("u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	select {
	case event := <-sub.C:
		assert.Equal(t, "u1", event.UserID)
		assert.Equal(t, notification.ID, event.Notification.ID)
	case <-time.After(time.Second):
		t.Fatal("notification was not published")
	}
}

func TestNotifyTemplates(t *testing.T) {
	uc, _, _ := newNotificationFixture()

	overdue, err := uc.NotifyTaskOverdue("u1", "t1", "pay rent")
	require.NoError(t, err)
	assert.Equal(t, "Task Overdue", overdue.Title)
	assert.Equal(t, "'pay rent' is now overdue", overdue.Message)

	assigned, err := uc.NotifyTaskAssigned("u1", "t2", "review PR")
	require.NoError(t, err)
	assert.Equal(t, "New Task Assigned", assigned.Title)
	assert.Equal(t, "'review PR' has been assigned to you", assigned.Message)

	completed, err := uc.NotifyTaskCompleted("u1", "t3", "ship release")
	require.NoError(t, err)
	assert.Equal(t, "Task Completed", completed.Title)
	assert.Equal(t, "'ship release' has been marked as completed", completed.Message)
}

func TestGetNotificationsNewestFirstWithUnreadCount(t *testing.T) {
	uc, _, _ := newNotificationFixture()

	for i := 0; i < 5; i++ {
		_, err := uc.NotifyTaskAssigned("u1", "t1", "batch")
		require.NoError(t, err)
	}
	_, err := uc.NotifyTaskAssigned("intruder", "t9", "other")
	require.NoError(t, err)

	notifications, unread, err := uc.GetNotifications("u1", 0, 0)
	require.NoError(t, err)
	assert.Len(t, notifications, 5)
	assert.Equal(t, int64(5), unread)
	for i := 1; i < len(notifications); i++ {
		assert.Greater(t, notifications[i-1].ID, notifications[i].ID)
	}
}

func TestGetNotificationsCapsLimit(t *testing.T) {
	uc, repo, _ := newNotificationFixture()
	for i := 0; i < maxNotificationLimit+10; i++ {
		_, err := repo.Create("u1", entity.KindTaskAssigned, "t", "m", nil)
		require.NoError(t, err)
	}

	notifications, _, err := uc.GetNotifications("u1", 500, 0)
	require.NoError(t, err)
	assert.Len(t, notifications, maxNotificationLimit)
}

func TestMarkAsReadDropsUnreadCount(t *testing.T) {
	uc, _, _ := newNotificationFixture()

	var ids []int64
	for i := 0; i < 4; i++ {
		n, err := uc.NotifyTaskAssigned("u1", "t1", "batch")
		require.NoError(t, err)
		ids = append(ids, n.ID)
	}

	updated, err := uc.MarkAsRead("u1", ids[:2])
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	_, unread, err := uc.GetNotifications("u1", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)
}

func TestMarkAsReadIgnoresForeignIDs(t *testing.T) {
	uc, _, _ := newNotificationFixture()

	mine, err := uc.NotifyTaskAssigned("u1", "t1", "mine")
	require.NoError(t, err)
	theirs, err := uc.NotifyTaskAssigned("u2", "t2", "theirs")
	require.NoError(t, err)

	updated, err := uc.MarkAsRead("u1", []int64{mine.ID, theirs.ID, 9999})
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	_, unread, err := uc.GetNotifications("u2", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

func TestMarkAsReadIsIdempotent(t *testing.T) {
	uc, _, _ := newNotificationFixture()

	notification, err := uc.NotifyTaskAssigned("u1", "t1", "once")
	require.NoError(t, err)

	updated, err := uc.MarkAsRead("u1", []int64{notification.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	notifications, _, err := uc.GetNotifications("u1", 0, 0)
	require.NoError(t, err)
	require.NotNil(t, notifications[0].ReadAt)
	firstReadAt := *notifications[0].ReadAt

	updated, err = uc.MarkAsRead("u1", []int64{notification.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated)

	// The original timestamp survives the second call untouched.
	notifications, _, err = uc.GetNotifications("u1", 0, 0)
	require.NoError(t, err)
	require.NotNil(t, notifications[0].ReadAt)
	assert.Equal(t, firstReadAt, *notifications[0].ReadAt)
}
