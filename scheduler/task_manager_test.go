package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playstore/models"
)

func finished(t *testing.T, tm *TaskManager, id string) models.TaskState {
	t.Helper()
	var state models.TaskState
	require.Eventually(t, func() bool {
		task, ok := tm.Get(id)
		if !ok || !task.IsCompleted() {
			return false
		}
		state = task.Snapshot()
		return true
	}, 2*time.Second, 5*time.Millisecond)
	return state
}

func TestTaskManagerCompletesAndFails(t *testing.T) {
	tm := NewTaskManager(func(_ context.Context, url string) (*models.ImportResult, error) {
		if url == "bad" {
			return nil, errors.New("fetch failed")
		}
		return &models.ImportResult{OK: true, ProductID: url}, nil
	}, 2, 10)
	defer tm.Stop()

	ok := tm.Submit("EP1")
	assert.Equal(t, "EP1", ok.URL)
	bad := tm.Submit("bad")

	state := finished(t, tm, ok.ID)
	assert.Equal(t, models.TaskStatusCompleted, state.Status)
	require.NotNil(t, state.Result)
	assert.Equal(t, "EP1", state.Result.ProductID)
	assert.NotNil(t, state.StartedAt)
	assert.NotNil(t, state.CompletedAt)

	state = finished(t, tm, bad.ID)
	assert.Equal(t, models.TaskStatusFailed, state.Status)
	assert.Equal(t, "fetch failed", state.Error)
	assert.Nil(t, state.Result)

	_, found := tm.Get("unknown")
	assert.False(t, found)

	stats := tm.Stats()
	assert.Equal(t, 2, stats.TotalTasks)
	assert.Equal(t, 2, stats.MaxWorkers)
	assert.Equal(t, 1, stats.TasksByStatus["completed"])
	assert.Equal(t, 1, stats.TasksByStatus["failed"])
}

func TestTaskManagerQueueFull(t *testing.T) {
	release := make(chan struct{})
	tm := NewTaskManager(func(ctx context.Context, url string) (*models.ImportResult, error) {
		select {
		case <-release:
			return &models.ImportResult{OK: true}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}, 1, 1)
	defer tm.Stop()

	running := tm.Submit("first")
	require.Eventually(t, func() bool {
		return running.Snapshot().Status == models.TaskStatusProcessing
	}, 2*time.Second, 5*time.Millisecond)

	queued := tm.Submit("second")
	rejected := tm.Submit("third")

	assert.Equal(t, models.TaskStatusQueued, queued.Snapshot().Status)
	assert.Equal(t, models.TaskStatusFailed, rejected.Snapshot().Status)
	assert.Equal(t, ErrQueueFull.Error(), rejected.Snapshot().Error)

	stats := tm.Stats()
	assert.Equal(t, 1, stats.ActiveWorkers)
	assert.Equal(t, 1, stats.QueueSize)

	close(release)
	assert.Equal(t, models.TaskStatusCompleted, finished(t, tm, queued.ID).Status)
}

func TestTaskManagerStopCancelsImports(t *testing.T) {
	tm := NewTaskManager(func(ctx context.Context, url string) (*models.ImportResult, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}, 1, 1)

	task := tm.Submit("slow")
	require.Eventually(t, func() bool {
		return task.Snapshot().Status == models.TaskStatusProcessing
	}, 2*time.Second, 5*time.Millisecond)

	tm.Stop()
	state := task.Snapshot()
	assert.Equal(t, models.TaskStatusFailed, state.Status)
	assert.Equal(t, context.Canceled.Error(), state.Error)
}

func TestCleanupOldTasks(t *testing.T) {
	tm := NewTaskManager(func(_ context.Context, url string) (*models.ImportResult, error) {
		return &models.ImportResult{OK: true}, nil
	}, 1, 10)
	defer tm.Stop()

	task := tm.Submit("EP1")
	finished(t, tm, task.ID)

	assert.Equal(t, 0, tm.CleanupOldTasks(time.Hour))
	_, ok := tm.Get(task.ID)
	assert.True(t, ok)

	j := NewJanitor(tm, "@every 1h", 0)
	j.Sweep()
	_, ok = tm.Get(task.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, tm.Stats().TotalTasks)
}

func TestJanitorSchedule(t *testing.T) {
	tm := NewTaskManager(func(_ context.Context, url string) (*models.ImportResult, error) {
		return &models.ImportResult{}, nil
	}, 1, 1)
	defer tm.Stop()

	j := NewJanitor(tm, "0 */5 * * * *", time.Hour)
	require.NoError(t, j.Start())
	j.Stop()

	assert.Error(t, NewJanitor(tm, "not a schedule", time.Hour).Start())
}
