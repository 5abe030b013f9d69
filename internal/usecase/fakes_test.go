package usecase

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskmaster/internal/entity"
	"taskmaster/internal/repo/persistent"
)

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*entity.Notification
	nextID        int64
	failCreate    error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{nextID: 1}
}

func (f *fakeNotificationRepo) Create(userID, kind, title, message string, metadata map[string]interface{}) (*entity.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != nil {
		return nil, f.failCreate
	}
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	notification := &entity.Notification{
		ID:        f.nextID,
		UserID:    userID,
		Type:      kind,
		Title:     title,
		Message:   message,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	f.nextID++
	f.notifications = append(f.notifications, notification)
	return notification, nil
}

func (f *fakeNotificationRepo) ListByUser(userID string, limit, offset int) ([]entity.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var owned []entity.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			owned = append(owned, *n)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID > owned[j].ID })
	if offset >= len(owned) {
		return []entity.Notification{}, nil
	}
	owned = owned[offset:]
	if limit < len(owned) {
		owned = owned[:limit]
	}
	return owned, nil
}

func (f *fakeNotificationRepo) CountUnread(userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.notifications {
		if n.UserID == userID && n.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkRead(ids []int64, userID string, readAt time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var updated int64
	for _, n := range f.notifications {
		if wanted[n.ID] && n.UserID == userID && n.ReadAt == nil {
			at := readAt
			n.ReadAt = &at
			updated++
		}
	}
	return updated, nil
}

type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks map[string]*entity.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*entity.Task)}
}

func (f *fakeTaskRepo) Create(task *entity.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	task.ID = uuid.NewString()
	task.CreatedAt = time.Now().UTC()
	task.UpdatedAt = task.CreatedAt
	clone := *task
	f.tasks[task.ID] = &clone
	return nil
}

func (f *fakeTaskRepo) GetByID(id, userID string) (*entity.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[id]
	if !ok || task.UserID != userID {
		return nil, entity.ErrNotFound
	}
	clone := *task
	return &clone, nil
}

func (f *fakeTaskRepo) List(userID string, filters persistent.TaskFilters) ([]entity.Task, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var owned []entity.Task
	for _, task := range f.tasks {
		if task.UserID != userID {
			continue
		}
		if filters.Status != "" && string(task.Status) != filters.Status {
			continue
		}
		if filters.Priority != "" && string(task.Priority) != filters.Priority {
			continue
		}
		owned = append(owned, *task)
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.After(owned[j].CreatedAt) })
	return owned, int64(len(owned)), nil
}

func (f *fakeTaskRepo) Update(task *entity.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.tasks[task.ID]
	if !ok || stored.UserID != task.UserID {
		return entity.ErrNotFound
	}
	task.UpdatedAt = time.Now().UTC()
	clone := *task
	f.tasks[task.ID] = &clone
	return nil
}

func (f *fakeTaskRepo) Delete(id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[id]
	if !ok || task.UserID != userID {
		return entity.ErrNotFound
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskRepo) DueBetween(from, to time.Time) ([]entity.DueTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var due []entity.DueTask
	for _, task := range f.tasks {
		if task.Status == entity.StatusDone || task.DueDate == nil {
			continue
		}
		if !task.DueDate.Before(from) && !task.DueDate.After(to) {
			due = append(due, entity.DueTask{ID: task.ID, UserID: task.UserID, Title: task.Title, DueDate: *task.DueDate})
		}
	}
	return due, nil
}

func (f *fakeTaskRepo) Overdue(before time.Time) ([]entity.DueTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var due []entity.DueTask
	for _, task := range f.tasks {
		if task.Status == entity.StatusDone || task.DueDate == nil {
			continue
		}
		if task.DueDate.Before(before) {
			due = append(due, entity.DueTask{ID: task.ID, UserID: task.UserID, Title: task.Title, DueDate: *task.DueDate})
		}
	}
	return due, nil
}

func (f *fakeTaskRepo) CountByUser(userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, task := range f.tasks {
		if task.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeTaskRepo) CountByStatus(userID string) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[string]int64)
	for _, task := range f.tasks {
		if task.UserID == userID {
			counts[string(task.Status)]++
		}
	}
	return counts, nil
}

func (f *fakeTaskRepo) CountByPriority(userID string) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[string]int64)
	for _, task := range f.tasks {
		if task.UserID == userID {
			counts[string(task.Priority)]++
		}
	}
	return counts, nil
}

func (f *fakeTaskRepo) CountDueBetween(userID string, from, to time.Time) (int64, error) {
	due, _ := f.DueBetween(from, to)
	var count int64
	for _, task := range due {
		if task.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeTaskRepo) CountOverdue(userID string, before time.Time) (int64, error) {
	due, _ := f.Overdue(before)
	var count int64
	for _, task := range due {
		if task.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeTaskRepo) CountCreatedBetween(userID string, from, to *time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, task := range f.tasks {
		if task.UserID != userID {
			continue
		}
		if from != nil && task.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && task.CreatedAt.After(*to) {
			continue
		}
		count++
	}
	return count, nil
}

func (f *fakeTaskRepo) CountCompletedBetween(userID string, from, to *time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, task := range f.tasks {
		if task.UserID != userID || task.Status != entity.StatusDone {
			continue
		}
		if from != nil && task.UpdatedAt.Before(*from) {
			continue
		}
		if to != nil && task.UpdatedAt.After(*to) {
			continue
		}
		count++
	}
	return count, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (f *fakeUserRepo) Create(user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, entity.ErrNotFound
}
