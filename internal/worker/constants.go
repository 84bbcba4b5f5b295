package worker

import "time"

// Log messages for the worker pool
const (
	LogMsgWorkerJobFailed   = "Worker job failed"
	LogMsgWorkerJobPanicked = "Worker job panicked"
	LogMsgWorkerJobRejected = "Worker pool stopped, job rejected"
)

// Log messages shared by timer based workers
const (
	LogMsgWorkerShuttingDown     = "Shutting down worker"
	LogMsgWorkerTimerCancelled   = "Cancelled pending worker timer"
	LogMsgWorkerShutdownComplete = "Worker shutdown complete"
	LogMsgWorkerShutdownTimeout  = "Worker shutdown timeout, executions may still be running"
)

// Log messages for period rollover operations
const (
	LogMsgRolloverScheduled      = "Period rollover scheduled"
	LogMsgRolloverStarting       = "Period rollover starting"
	LogMsgRolloverCompleted      = "Period rollover completed"
	LogMsgRolloverSkipped        = "Period rollover recorded nothing"
	LogMsgRolloverFailed         = "Period rollover failed"
	LogMsgRolloverScheduleFailed = "Failed to schedule period rollover"
	LogMsgRolloverEarlyTrigger   = "Period rollover timer fired early, rescheduling"
	LogMsgRolloverCatchUp        = "Running period rollover catch-up on startup"
)

// Log messages for the active snapshot refresh job
const (
	LogMsgSnapshotRefreshCompleted = "Active snapshot refresh completed"
)

// Error message formats
const (
	ErrMsgRefreshFailed = "failed to refresh active snapshots: %w"
)

// RolloverWorkerName tags the rollover worker's log records
const RolloverWorkerName = "period_rollover"

// RolloverMaxWait caps a single timer so long waits are re-checked against the
// calendar instead of trusting one timer for weeks
const RolloverMaxWait = 6 * time.Hour

// RolloverJobTimeout bounds a single close and snapshot call
const RolloverJobTimeout = 5 * time.Minute
