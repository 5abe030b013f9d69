package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmaster/internal/entity"
	"taskmaster/pkg/logger"
)

func TestGetOverview(t *testing.T) {
	taskRepo := newFakeTaskRepo()
	uc := NewStatsUseCase(taskRepo, logger.New())
	now := time.Now().UTC()

	overdueAt := now.Add(-time.Hour)
	thisWeek := now.Add(3 * 24 * time.Hour)
	addTask(t, taskRepo, "u1", entity.StatusTodo, &overdueAt)
	addTask(t, taskRepo, "u1", entity.StatusDoing, &thisWeek)
	addTask(t, taskRepo, "u1", entity.StatusDone, nil)
	addTask(t, taskRepo, "stranger", entity.StatusTodo, nil)

	overview, err := uc.GetOverview("u1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), overview.Total)
	assert.Equal(t, int64(1), overview.ByStatus["todo"])
	assert.Equal(t, int64(1), overview.ByStatus["doing"])
	assert.Equal(t, int64(1), overview.ByStatus["done"])
	assert.Equal(t, int64(3), overview.ByPriority["med"])
	assert.Equal(t, int64(1), overview.DueThisWeek)
	assert.Equal(t, int64(1), overview.Overdue)
}

func TestGetCompletionStats(t *testing.T) {
	taskRepo := newFakeTaskRepo()
	uc := NewStatsUseCase(taskRepo, logger.New())

	addTask(t, taskRepo, "u1", entity.StatusDone, nil)
	addTask(t, taskRepo, "u1", entity.StatusDone, nil)
	addTask(t, taskRepo, "u1", entity.StatusTodo, nil)
	addTask(t, taskRepo, "u1", entity.StatusDoing, nil)

	stats, err := uc.GetCompletionStats("u1", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Created)
	assert.Equal(t, int64(2), stats.Completed)
	assert.InDelta(t, 0.5, stats.CompletionRate, 0.001)
}

func TestGetCompletionStatsEmptyRange(t *testing.T) {
	uc := NewStatsUseCase(newFakeTaskRepo(), logger.New())

	stats, err := uc.GetCompletionStats("u1", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Created)
	assert.Zero(t, stats.CompletionRate)
}
