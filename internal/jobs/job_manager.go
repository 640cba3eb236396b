package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"khabarlagbe/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	dispatchJob    *DispatchJob
	sampleSweepJob *SampleSweepJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	dispatchHandler commands.DispatchOrdersCommandHandler,
	samples staleSampleStore,
	sampleMaxAge time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		dispatchJob:    NewDispatchJob(dispatchHandler, logger),
		sampleSweepJob: NewSampleSweepJob(samples, sampleMaxAge, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.dispatchJob.Start(); err != nil {
		return fmt.Errorf("failed to start dispatch job: %w", err)
	}

	if err := jm.sampleSweepJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.dispatchJob.Stop()
		return fmt.Errorf("failed to start sample sweep job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.sampleSweepJob.Stop()
	jm.dispatchJob.Stop()
}
