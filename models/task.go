package models

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the status of an async task
type TaskStatus string

const (
	TaskStatusQueued     TaskStatus = "queued"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// ImportTask is a product import running in the background
type ImportTask struct {
	TaskState

	mu sync.RWMutex
}

// NewImportTask creates a queued import task
func NewImportTask(url string) *ImportTask {
	return &ImportTask{TaskState: TaskState{
		ID:        uuid.NewString(),
		URL:       url,
		Status:    TaskStatusQueued,
		Message:   "Task queued for processing",
		CreatedAt: time.Now(),
	}}
}

// Start marks the task as processing
func (t *ImportTask) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Status = TaskStatusProcessing
	t.Message = "Fetching product pages"
	now := time.Now()
	t.StartedAt = &now
}

// Complete marks the task as completed with result
func (t *ImportTask) Complete(result *ImportResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Status = TaskStatusCompleted
	t.Message = "Import completed"
	t.Result = result
	now := time.Now()
	t.CompletedAt = &now
}

// Fail marks the task as failed with error
func (t *ImportTask) Fail(reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Status = TaskStatusFailed
	t.Message = "Import failed"
	t.Error = reason
	now := time.Now()
	t.CompletedAt = &now
}

// IsCompleted returns true if the task is in a final state
func (t *ImportTask) IsCompleted() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.Status == TaskStatusCompleted || t.Status == TaskStatusFailed
}

// IsActive returns true if the task is still running
func (t *ImportTask) IsActive() bool {
	return !t.IsCompleted()
}

// Duration returns the duration of the task
func (t *ImportTask) Duration() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.StartedAt == nil {
		return 0
	}

	endTime := time.Now()
	if t.CompletedAt != nil {
		endTime = *t.CompletedAt
	}

	return endTime.Sub(*t.StartedAt)
}

// Snapshot returns a copy that is safe to serialize while the task runs
func (t *ImportTask) Snapshot() TaskState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.TaskState
}

// TaskState is the observable state of an ImportTask
type TaskState struct {
	ID          string        `json:"id"`
	URL         string        `json:"url"`
	Status      TaskStatus    `json:"status"`
	Message     string        `json:"message"`
	Result      *ImportResult `json:"result,omitempty"`
	Error       string        `json:"error,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	StartedAt   *time.Time    `json:"started_at,omitempty"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}
