package usecase

import (
	"fmt"
	"time"

	"taskmaster/internal/entity"
	"taskmaster/internal/repo/persistent"
	"taskmaster/pkg/logger"
)

const (
	defaultTaskLimit = 20
	maxTaskLimit     = 100
)

type CreateTaskInput struct {
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
	Tags        []string
}

// UpdateTaskInput carries a partial update; nil fields are untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *time.Time
	ClearDue    bool
	Tags        []string
}

type TaskUseCase interface {
	CreateTask(userID string, input CreateTaskInput) (*entity.Task, error)
	GetTask(userID, taskID string) (*entity.Task, error)
	ListTasks(userID string, filters persistent.TaskFilters) ([]entity.Task, int64, error)
	UpdateTask(userID, taskID string, input UpdateTaskInput) (*entity.Task, error)
	DeleteTask(userID, taskID string) error
}

type taskUseCase struct {
	taskRepo      persistent.TaskRepository
	notifications NotificationUseCase
	logger        *logger.Logger
}

func NewTaskUseCase(taskRepo persistent.TaskRepository, notifications NotificationUseCase, logger *logger.Logger) TaskUseCase {
	return &taskUseCase{
		taskRepo:      taskRepo,
		notifications: notifications,
		logger:        logger,
	}
}

func (uc *taskUseCase) CreateTask(userID string, input CreateTaskInput) (*entity.Task, error) {
	if len(input.Title) < 3 || len(input.Title) > 120 {
		return nil, fmt.Errorf("%w: title must be between 3 and 120 characters", entity.ErrValidation)
	}
	if input.DueDate != nil && !input.DueDate.After(time.Now().UTC()) {
		return nil, fmt.Errorf("%w: due date must be in the future", entity.ErrValidation)
	}

	priority := entity.TaskPriority(input.Priority)
	if input.Priority == "" {
		priority = entity.PriorityMed
	} else if !priority.Valid() {
		return nil, fmt.Errorf("%w: invalid priority %q", entity.ErrValidation, input.Priority)
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	task := &entity.Task{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Status:      entity.StatusTodo,
		Priority:    priority,
		DueDate:     input.DueDate,
		Tags:        tags,
	}
	if err := uc.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if _, err := uc.notifications.NotifyTaskAssigned(userID, task.ID, task.Title); err != nil {
		uc.logger.Warn("Task %s created but assignment notification failed: %v", task.ID, err)
	}

	return task, nil
}

func (uc *taskUseCase) GetTask(userID, taskID string) (*entity.Task, error) {
	return uc.taskRepo.GetByID(taskID, userID)
}

func (uc *taskUseCase) ListTasks(userID string, filters persistent.TaskFilters) ([]entity.Task, int64, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.Limit <= 0 {
		filters.Limit = defaultTaskLimit
	}
	if filters.Limit > maxTaskLimit {
		filters.Limit = maxTaskLimit
	}
	if filters.Status != "" && !entity.TaskStatus(filters.Status).Valid() {
		return nil, 0, fmt.Errorf("%w: invalid status %q", entity.ErrValidation, filters.Status)
	}
	if filters.Priority != "" && !entity.TaskPriority(filters.Priority).Valid() {
		return nil, 0, fmt.Errorf("%w: invalid priority %q", entity.ErrValidation, filters.Priority)
	}
	return uc.taskRepo.List(userID, filters)
}

func (uc *taskUseCase) UpdateTask(userID, taskID string, input UpdateTaskInput) (*entity.Task, error) {
	task, err := uc.taskRepo.GetByID(taskID, userID)
	if err != nil {
		return nil, err
	}
	wasDone := task.Status == entity.StatusDone

	if input.Title != nil {
		if len(*input.Title) < 3 || len(*input.Title) > 120 {
			return nil, fmt.Errorf("%w: title must be between 3 and 120 characters", entity.ErrValidation)
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		status := entity.TaskStatus(*input.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: invalid status %q", entity.ErrValidation, *input.Status)
		}
		task.Status = status
	}
	if input.Priority != nil {
		priority := entity.TaskPriority(*input.Priority)
		if !priority.Valid() {
			return nil, fmt.Errorf("%w: invalid priority %q", entity.ErrValidation, *input.Priority)
		}
		task.Priority = priority
	}
	if input.ClearDue {
		task.DueDate = nil
	} else if input.DueDate != nil {
		if !input.DueDate.After(time.Now().UTC()) {
			return nil, fmt.Errorf("%w: due date must be in the future", entity.ErrValidation)
		}
		task.DueDate = input.DueDate
	}
	if input.Tags != nil {
		task.Tags = input.Tags
	}

	if err := uc.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if !wasDone && task.Status == entity.StatusDone {
		if _, err := uc.notifications.NotifyTaskCompleted(userID, task.ID, task.Title); err != nil {
			uc.logger.Warn("Task %s completed but notification failed: %v", task.ID, err)
		}
	}

	return task, nil
}

func (uc *taskUseCase) DeleteTask(userID, taskID string) error {
	return uc.taskRepo.Delete(taskID, userID)
}
