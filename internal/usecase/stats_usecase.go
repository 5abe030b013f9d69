package usecase

import (
	"fmt"
	"time"

	"taskmaster/internal/repo/persistent"
	"taskmaster/pkg/logger"
)

type TaskOverview struct {
	Total       int64            `json:"total"`
	ByStatus    map[string]int64 `json:"by_status"`
	ByPriority  map[string]int64 `json:"by_priority"`
	DueThisWeek int64            `json:"due_this_week"`
	Overdue     int64            `json:"overdue"`
}

type CompletionStats struct {
	Created        int64   `json:"created"`
	Completed      int64   `json:"completed"`
	CompletionRate float64 `json:"completion_rate"`
}

type StatsUseCase interface {
	GetOverview(userID string) (*TaskOverview, error)
	GetCompletionStats(userID string, from, to *time.Time) (*CompletionStats, error)
}

type statsUseCase struct {
	taskRepo persistent.TaskRepository
	logger   *logger.Logger
}

func NewStatsUseCase(taskRepo persistent.TaskRepository, logger *logger.Logger) StatsUseCase {
	return &statsUseCase{taskRepo: taskRepo, logger: logger}
}

func (uc *statsUseCase) GetOverview(userID string) (*TaskOverview, error) {
	total, err := uc.taskRepo.CountByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	byStatus, err := uc.taskRepo.CountByStatus(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by status: %w", err)
	}

	byPriority, err := uc.taskRepo.CountByPriority(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by priority: %w", err)
	}

	now := time.Now().UTC()
	dueThisWeek, err := uc.taskRepo.CountDueBetween(userID, now, now.Add(7*24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("failed to count upcoming tasks: %w", err)
	}

	overdue, err := uc.taskRepo.CountOverdue(userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count overdue tasks: %w", err)
	}

	return &TaskOverview{
		Total:       total,
		ByStatus:    byStatus,
		ByPriority:  byPriority,
		DueThisWeek: dueThisWeek,
		Overdue:     overdue,
	}, nil
}

func (uc *statsUseCase) GetCompletionStats(userID string, from, to *time.Time) (*CompletionStats, error) {
	created, err := uc.taskRepo.CountCreatedBetween(userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to count created tasks: %w", err)
	}

	completed, err := uc.taskRepo.CountCompletedBetween(userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed tasks: %w", err)
	}

	stats := &CompletionStats{Created: created, Completed: completed}
	if created > 0 {
		stats.CompletionRate = float64(completed) / float64(created)
	}
	return stats, nil
}
