package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0o755

	// LogFilePermission is the permission for log files
	LogFilePermission = 0o644
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat sorts lexically in creation order
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFilesKept is the number of older session logs retained at startup
	LogFilesKept = 9
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgUnknownLogLevel     = "Unknown log level, using info"
	LogMsgStarting            = "Starting playcredits"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"
	ErrMsgFailedCreateLogsDir = "failed to create logs directory"
	ErrMsgFailedOpenLogFile   = "failed to open log file"
)

// =============================================================================
// Event System
// =============================================================================

const (
	// EventDefaultMaxRetries applies when the configured value is negative
	EventDefaultMaxRetries = 5

	// EventDefaultRetryDelay is the base delay of the exponential backoff
	EventDefaultRetryDelay = 2 * time.Second

	// EventDefaultDeadLetterPath is the JSON-lines file for undeliverable events
	EventDefaultDeadLetterPath = "logs/event_deadletter.jsonl"
)

const (
	LogMsgEventSystemInitialized         = "Event system initialized"
	LogMsgMetricsCollectorRegistered     = "Metrics collector registered"
	LogMsgLeaderboardAudit               = "Leaderboard event"
	ErrMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	ErrMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
	ErrMsgFailedRegisterMetrics          = "failed to register metrics collector"
)

// =============================================================================
// Services and Seeding
// =============================================================================

const (
	LogMsgCalendarLoaded = "Period calendar loaded"
	LogMsgSeedingGames   = "Syncing game catalog from JSON seed..."
	LogMsgSeedMissing    = "Game seed file not found, sync skipped"
	ErrMsgLoadCalendar   = "failed to load period calendar"
	ErrMsgLoadSeed       = "failed to load game seed"
	ErrMsgInvalidSeed    = "invalid game seed"
	ErrMsgSyncSeed       = "failed to sync game seed"
)

// =============================================================================
// Workers
// =============================================================================

const (
	// JobNameSnapshotRefresh identifies the periodic active-snapshot job
	JobNameSnapshotRefresh = "snapshot_refresh"

	// WorkerQueueMultiplier sizes the pool queue relative to its worker count
	WorkerQueueMultiplier = 4

	LogMsgWorkersStarted = "Background workers started"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownWorkers        = "Stopping background workers..."
	LogMsgSchedulerStopped           = "Scheduler stopped"
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgRolloverShutdownFailed     = "Period rollover worker shutdown failed"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
)
