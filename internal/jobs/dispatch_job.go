package jobs

import (
	"context"
	"log/slog"

	"khabarlagbe/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DispatchJob runs the dispatch pass every second: expiring due offers,
// advancing candidate pools, and opening offers for unassigned ready orders.
type DispatchJob struct {
	handler commands.DispatchOrdersCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewDispatchJob creates the scheduled dispatch job.
func NewDispatchJob(handler commands.DispatchOrdersCommandHandler, logger *slog.Logger) *DispatchJob {
	return &DispatchJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "dispatch_job"),
	}
}

// Start begins the dispatch job to run every second.
func (j *DispatchJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewDispatchOrdersCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Dispatch pass failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Dispatch job started (running every second)")
	return nil
}

// Stop stops the dispatch job.
func (j *DispatchJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Dispatch job stopped")
}
