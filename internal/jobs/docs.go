// Package jobs provides scheduled background tasks for the order core.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for order dispatch and tracking.
//
// # Available Jobs
//
// 1. DispatchJob - Runs every second to expire due offers, advance candidate
// pools, and open offers for ready orders without a rider
// 2. SampleSweepJob - Runs every minute to evict location samples from riders
// who stopped reporting
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(dispatchHandler, sampleStore, maxAge, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The dispatch job uses the cron expression "* * * * * *" so an offer whose
// response window closed is expired within a second, keeping the candidate
// pool moving. The sweep job runs at the top of every minute, which is tight
// enough for a sample max age measured in minutes.
//
// # Error Handling
//
// - A failed dispatch pass is logged and retried on the next tick
// - Failed job starts will stop any already running jobs
package jobs
