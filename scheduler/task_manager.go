package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"playstore/metrics"
	"playstore/models"
)

// ErrQueueFull is reported by tasks that could not be queued
var ErrQueueFull = errors.New("task queue is full")

// ImportFunc runs one product import
type ImportFunc func(ctx context.Context, url string) (*models.ImportResult, error)

// TaskStats summarises the task manager
type TaskStats struct {
	TotalTasks    int            `json:"total_tasks"`
	ActiveWorkers int            `json:"active_workers"`
	MaxWorkers    int            `json:"max_workers"`
	QueueSize     int            `json:"queue_size"`
	TasksByStatus map[string]int `json:"tasks_by_status"`
}

// TaskManager runs background imports on a fixed pool of workers
type TaskManager struct {
	tasks      map[string]*models.ImportTask
	taskQueue  chan *models.ImportTask
	maxWorkers int
	importFunc ImportFunc
	active     int
	mutex      sync.RWMutex
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// NewTaskManager creates a task manager and starts its workers
func NewTaskManager(importFunc ImportFunc, maxWorkers, queueSize int) *TaskManager {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if queueSize < 1 {
		queueSize = 100
	}
	ctx, cancel := context.WithCancel(context.Background())
	tm := &TaskManager{
		tasks:      make(map[string]*models.ImportTask),
		taskQueue:  make(chan *models.ImportTask, queueSize),
		maxWorkers: maxWorkers,
		importFunc: importFunc,
		ctx:        ctx,
		cancel:     cancel,
	}

	for i := 0; i < maxWorkers; i++ {
		tm.wg.Add(1)
		go tm.worker()
	}
	log.Info().Int("workers", maxWorkers).Int("queue", queueSize).Msg("task manager started")
	return tm
}

// Submit queues an import of url. The returned task fails immediately when
// the queue is full.
func (tm *TaskManager) Submit(url string) *models.ImportTask {
	task := models.NewImportTask(url)

	tm.mutex.Lock()
	tm.tasks[task.ID] = task
	tm.mutex.Unlock()

	select {
	case tm.taskQueue <- task:
		log.Info().Str("task_id", task.ID).Str("url", url).Msg("import task submitted")
	default:
		task.Fail(ErrQueueFull.Error())
		log.Warn().Str("task_id", task.ID).Msg("import task rejected, queue full")
	}

	tm.publishCounts()
	return task
}

// Get returns a task by ID
func (tm *TaskManager) Get(taskID string) (*models.ImportTask, bool) {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()

	task, exists := tm.tasks[taskID]
	return task, exists
}

// CleanupOldTasks removes finished tasks created before maxAge ago and
// returns how many were removed
func (tm *TaskManager) CleanupOldTasks(maxAge time.Duration) int {
	tm.mutex.Lock()
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for taskID, task := range tm.tasks {
		if task.IsCompleted() && task.CreatedAt.Before(cutoff) {
			delete(tm.tasks, taskID)
			removed++
		}
	}
	tm.mutex.Unlock()

	if removed > 0 {
		log.Info().Int("removed", removed).Msg("cleaned up old import tasks")
		tm.publishCounts()
	}
	return removed
}

func (tm *TaskManager) worker() {
	defer tm.wg.Done()
	for {
		select {
		case task := <-tm.taskQueue:
			tm.run(task)
		case <-tm.ctx.Done():
			return
		}
	}
}

func (tm *TaskManager) run(task *models.ImportTask) {
	tm.mutex.Lock()
	tm.active++
	tm.mutex.Unlock()
	defer func() {
		tm.mutex.Lock()
		tm.active--
		tm.mutex.Unlock()
		tm.publishCounts()
	}()

	task.Start()
	tm.publishCounts()
	log.Info().Str("task_id", task.ID).Str("url", task.URL).Msg("import task started")

	result, err := tm.importFunc(tm.ctx, task.URL)
	if err != nil {
		task.Fail(err.Error())
		log.Error().Err(err).Str("task_id", task.ID).Msg("import task failed")
		return
	}

	task.Complete(result)
	log.Info().Str("task_id", task.ID).Bool("ok", result.OK).Dur("duration", task.Duration()).Msg("import task completed")
}

// Stop cancels running imports and waits for the workers to exit
func (tm *TaskManager) Stop() {
	log.Info().Msg("task manager stopping")
	tm.cancel()
	tm.wg.Wait()
}

// Stats returns task manager statistics
func (tm *TaskManager) Stats() TaskStats {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()

	stats := TaskStats{
		TotalTasks:    len(tm.tasks),
		ActiveWorkers: tm.active,
		MaxWorkers:    tm.maxWorkers,
		QueueSize:     len(tm.taskQueue),
		TasksByStatus: make(map[string]int),
	}
	for _, task := range tm.tasks {
		stats.TasksByStatus[string(task.Snapshot().Status)]++
	}
	return stats
}

func (tm *TaskManager) publishCounts() {
	metrics.SetTaskCounts(tm.Stats().TasksByStatus)
}
