package usecase

import (
	"context"
	"time"

	"taskmaster/internal/repo/persistent"
	"taskmaster/pkg/logger"
)

// dueSoonWindow is how far ahead the scheduler looks for tasks about
// to come due.
const dueSoonWindow = 2 * time.Hour

// Scheduler periodically scans tasks and emits due-soon and overdue
// notifications. Every pass re-notifies matching tasks; clients are
// expected to dedupe on their side.
type Scheduler struct {
	taskRepo      persistent.TaskRepository
	notifications NotificationUseCase
	interval      time.Duration
	logger        *logger.Logger
}

func NewScheduler(taskRepo persistent.TaskRepository, notifications NotificationUseCase, interval time.Duration, logger *logger.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{
		taskRepo:      taskRepo,
		notifications: notifications,
		interval:      interval,
		logger:        logger,
	}
}

// Start runs the scan loop until the context is cancelled. The first
// pass happens immediately.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Scheduler started with interval %s", s.interval)
	s.RunPass(time.Now().UTC())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped")
			return
		case <-ticker.C:
			s.RunPass(time.Now().UTC())
		}
	}
}

// RunPass executes one scan at the given instant and reports how many
// due-soon and overdue notifications were emitted.
func (s *Scheduler) RunPass(now time.Time) (dueSoon, overdue int) {
	dueTasks, err := s.taskRepo.DueBetween(now, now.Add(dueSoonWindow))
	if err != nil {
		s.logger.Error("Scheduler due-soon scan failed: %v", err)
	} else {
		for _, task := range dueTasks {
			hours := int64(task.DueDate.Sub(now).Hours())
			if _, err := s.notifications.NotifyTaskDueSoon(task.UserID, task.ID, task.Title, hours); err != nil {
				s.logger.Error("Scheduler failed to notify due-soon task %s: %v", task.ID, err)
				continue
			}
			dueSoon++
		}
	}

	overdueTasks, err := s.taskRepo.Overdue(now)
	if err != nil {
		s.logger.Error("Scheduler overdue scan failed: %v", err)
	} else {
		for _, task := range overdueTasks {
			if _, err := s.notifications.NotifyTaskOverdue(task.UserID, task.ID, task.Title); err != nil {
				s.logger.Error("Scheduler failed to notify overdue task %s: %v", task.ID, err)
				continue
			}
			overdue++
		}
	}

	if dueSoon > 0 || overdue > 0 {
		s.logger.Info("Scheduler pass emitted %d due-soon and %d overdue notifications", dueSoon, overdue)
	}
	return dueSoon, overdue
}
