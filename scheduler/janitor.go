package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Janitor periodically purges finished import tasks
type Janitor struct {
	cron      *cron.Cron
	tasks     *TaskManager
	retention time.Duration
	schedule  string
}

// NewJanitor creates a janitor; schedule uses the six-field cron syntax with seconds
func NewJanitor(tasks *TaskManager, schedule string, retention time.Duration) *Janitor {
	return &Janitor{
		cron:      cron.New(cron.WithSeconds()),
		tasks:     tasks,
		retention: retention,
		schedule:  schedule,
	}
}

// Start schedules the cleanup job
func (j *Janitor) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.Sweep); err != nil {
		return fmt.Errorf("failed to schedule task cleanup: %w", err)
	}
	j.cron.Start()
	log.Info().Str("schedule", j.schedule).Dur("retention", j.retention).Msg("task cleanup scheduled")
	return nil
}

// Sweep removes tasks past retention
func (j *Janitor) Sweep() {
	j.tasks.CleanupOldTasks(j.retention)
}

// Stop stops the scheduler and waits for a running sweep
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}
