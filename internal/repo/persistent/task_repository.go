package persistent

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskmaster/internal/entity"
	"taskmaster/internal/model"
)

// TaskFilters narrows and orders a task listing. Zero values mean
// "no filter"; Page/Limit are normalized by the caller.
type TaskFilters struct {
	Status      string
	Priority    string
	Tag         string
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	DueFrom     *time.Time
	DueTo       *time.Time
	SortBy      string
	SortOrder   string
	Page        int
	Limit       int
}

type TaskRepository interface {
	Create(task *entity.Task) error
	GetByID(id, userID string) (*entity.Task, error)
	List(userID string, filters TaskFilters) ([]entity.Task, int64, error)
	Update(task *entity.Task) error
	Delete(id, userID string) error

	// Scheduler scans. Owner-agnostic: each row carries its owner.
	DueBetween(from, to time.Time) ([]entity.DueTask, error)
	Overdue(before time.Time) ([]entity.DueTask, error)

	// Stats aggregates, all scoped to one owner.
	CountByUser(userID string) (int64, error)
	CountByStatus(userID string) (map[string]int64, error)
	CountByPriority(userID string) (map[string]int64, error)
	CountDueBetween(userID string, from, to time.Time) (int64, error)
	CountOverdue(userID string, before time.Time) (int64, error)
	CountCreatedBetween(userID string, from, to *time.Time) (int64, error)
	CountCompletedBetween(userID string, from, to *time.Time) (int64, error)
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func toTaskModel(e *entity.Task) *model.TaskModel {
	return &model.TaskModel{
		ID:          e.ID,
		UserID:      e.UserID,
		Title:       e.Title,
		Description: e.Description,
		Status:      string(e.Status),
		Priority:    string(e.Priority),
		DueDate:     e.DueDate,
		Tags:        model.StringList(e.Tags),
		CreatedAt:   e.CreatedAt,
	}
}

func (r *taskRepository) Create(task *entity.Task) error {
	taskModel := toTaskModel(task)
	if err := r.db.Create(taskModel).Error; err != nil {
		return err
	}
	task.ID = taskModel.ID
	task.CreatedAt = taskModel.CreatedAt
	task.UpdatedAt = taskModel.UpdatedAt
	return nil
}

func (r *taskRepository) GetByID(id, userID string) (*entity.Task, error) {
	var taskModel model.TaskModel
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&taskModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return ToTaskEntity(&taskModel), nil
}

// sortColumns whitelists task listing sort fields.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"title":      "title",
	"status":     "status",
	"priority":   "priority",
	"due_date":   "due_date",
}

func (r *taskRepository) List(userID string, filters TaskFilters) ([]entity.Task, int64, error) {
	query := r.db.Model(&model.TaskModel{}).Where("user_id = ?", userID)

	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Priority != "" {
		query = query.Where("priority = ?", filters.Priority)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("(title ILIKE ? OR description ILIKE ?)", pattern, pattern)
	}
	if filters.Tag != "" {
		query = query.Where("tags::text ILIKE ?", "%"+filters.Tag+"%")
	}
	if filters.CreatedFrom != nil {
		query = query.Where("created_at >= ?", filters.CreatedFrom)
	}
	if filters.CreatedTo != nil {
		query = query.Where("created_at <= ?", filters.CreatedTo)
	}
	if filters.DueFrom != nil {
		query = query.Where("due_date >= ?", filters.DueFrom)
	}
	if filters.DueTo != nil {
		query = query.Where("due_date <= ?", filters.DueTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[filters.SortBy]
	if !ok {
		column = "created_at"
	}
	order := "DESC"
	if filters.SortOrder == "asc" {
		order = "ASC"
	}

	offset := (filters.Page - 1) * filters.Limit

	var taskModels []model.TaskModel
	err := query.
		Order(fmt.Sprintf("%s %s", column, order)).
		Limit(filters.Limit).
		Offset(offset).
		Find(&taskModels).Error
	if err != nil {
		return nil, 0, err
	}

	return ToTaskEntities(taskModels), total, nil
}

func (r *taskRepository) Update(task *entity.Task) error {
	taskModel := toTaskModel(task)
	result := r.db.Model(&model.TaskModel{}).
		Where("id = ? AND user_id = ?", task.ID, task.UserID).
		Updates(map[string]interface{}{
			"title":       taskModel.Title,
			"description": taskModel.Description,
			"status":      taskModel.Status,
			"priority":    taskModel.Priority,
			"due_date":    taskModel.DueDate,
			"tags":        taskModel.Tags,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrNotFound
	}

	var updated model.TaskModel
	if err := r.db.Where("id = ?", task.ID).First(&updated).Error; err != nil {
		return err
	}
	*task = *ToTaskEntity(&updated)
	return nil
}

func (r *taskRepository) Delete(id, userID string) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&model.TaskModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *taskRepository) DueBetween(from, to time.Time) ([]entity.DueTask, error) {
	var taskModels []model.TaskModel
	err := r.db.
		Where("due_date BETWEEN ? AND ? AND status != ?", from, to, string(entity.StatusDone)).
		Find(&taskModels).Error
	if err != nil {
		return nil, err
	}
	return toDueTasks(taskModels), nil
}

func (r *taskRepository) Overdue(before time.Time) ([]entity.DueTask, error) {
	var taskModels []model.TaskModel
	err := r.db.
		Where("due_date < ? AND status != ?", before, string(entity.StatusDone)).
		Find(&taskModels).Error
	if err != nil {
		return nil, err
	}
	return toDueTasks(taskModels), nil
}

func toDueTasks(models []model.TaskModel) []entity.DueTask {
	tasks := make([]entity.DueTask, 0, len(models))
	for _, m := range models {
		due := entity.DueTask{ID: m.ID, UserID: m.UserID, Title: m.Title}
		if m.DueDate != nil {
			due.DueDate = *m.DueDate
		}
		tasks = append(tasks, due)
	}
	return tasks
}

func (r *taskRepository) CountByUser(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.TaskModel{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

type groupCount struct {
	Key   string
	Count int64
}

func (r *taskRepository) CountByStatus(userID string) (map[string]int64, error) {
	return r.countGrouped(userID, "status")
}

func (r *taskRepository) CountByPriority(userID string) (map[string]int64, error) {
	return r.countGrouped(userID, "priority")
}

func (r *taskRepository) countGrouped(userID, column string) (map[string]int64, error) {
	var rows []groupCount
	err := r.db.Model(&model.TaskModel{}).
		Select(column+" AS key, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Key] = row.Count
	}
	return counts, nil
}

func (r *taskRepository) CountDueBetween(userID string, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.TaskModel{}).
		Where("user_id = ? AND due_date BETWEEN ? AND ? AND status != ?", userID, from, to, string(entity.StatusDone)).
		Count(&count).Error
	return count, err
}

func (r *taskRepository) CountOverdue(userID string, before time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.TaskModel{}).
		Where("user_id = ? AND due_date < ? AND status != ?", userID, before, string(entity.StatusDone)).
		Count(&count).Error
	return count, err
}

func (r *taskRepository) CountCreatedBetween(userID string, from, to *time.Time) (int64, error) {
	query := r.db.Model(&model.TaskModel{}).Where("user_id = ?", userID)
	if from != nil {
		query = query.Where("created_at >= ?", from)
	}
	if to != nil {
		query = query.Where("created_at <= ?", to)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *taskRepository) CountCompletedBetween(userID string, from, to *time.Time) (int64, error) {
	query := r.db.Model(&model.TaskModel{}).
		Where("user_id = ? AND status = ?", userID, string(entity.StatusDone))
	if from != nil {
		query = query.Where("updated_at >= ?", from)
	}
	if to != nil {
		query = query.Where("updated_at <= ?", to)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}
