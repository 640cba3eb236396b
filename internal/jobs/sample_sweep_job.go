package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// staleSampleStore is the slice of the sample store the sweep needs.
type staleSampleStore interface {
	DropStale(ctx context.Context, cutoff time.Time) (int, error)
}

// SampleSweepJob evicts location samples from riders who stopped reporting,
// so dispatch never ranks a candidate by a position that is minutes old.
type SampleSweepJob struct {
	samples staleSampleStore
	maxAge  time.Duration
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewSampleSweepJob creates the sweep job. maxAge is how old a sample may
// get before it is evicted.
func NewSampleSweepJob(samples staleSampleStore, maxAge time.Duration, logger *slog.Logger) *SampleSweepJob {
	return &SampleSweepJob{
		samples: samples,
		maxAge:  maxAge,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "sample_sweep_job"),
	}
}

// Start begins the sweep job to run once a minute.
func (j *SampleSweepJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()

		dropped, sweepErr := j.samples.DropStale(ctx, time.Now().Add(-j.maxAge))
		if sweepErr != nil {
			j.logger.ErrorContext(ctx, "Sample sweep failed", "error", sweepErr)
			return
		}
		if dropped > 0 {
			j.logger.InfoContext(ctx, "Evicted stale location samples", "count", dropped)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Sample sweep job started (running every minute)")
	return nil
}

// Stop stops the sweep job.
func (j *SampleSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Sample sweep job stopped")
}
