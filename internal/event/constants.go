package event

import "time"

// EventSchemaVersion is stamped on every event this package builds
const EventSchemaVersion = "1.0"

const (
	// RetryQueueBufferSize bounds events awaiting retry; overflow goes straight to dead-letter
	RetryQueueBufferSize = 1000

	DeadLetterFilePermissions = 0o644

	// MaxDeadLetterLineBytes caps one dead-letter entry when reading the file back
	MaxDeadLetterLineBytes = 1 << 20
)

const (
	ErrMsgEmptyPayload     = "event has no payload"
	ErrMsgDecodePayload    = "failed to decode payload of"
	ErrMsgDecodeDeadLetter = "malformed dead-letter entry at"
)

const (
	LogMsgEventPublishFailed    = "Event publish failed, queuing for retry"
	LogMsgRetryQueueFull        = "Retry queue full, event dropped to dead-letter"
	LogMsgDeadLetterWriteFailed = "Failed to write to dead letter"
	LogMsgEventRetryExhausted   = "Event retry exhausted, writing to dead-letter"
	LogMsgEventRetryFailed      = "Event retry failed, scheduling next attempt"
	LogMsgEventRetrySucceeded   = "Event retry succeeded"
	LogMsgEventDroppedShutdown  = "Event dropped during shutdown"
	LogMsgQueueDrainedShutdown  = "Drained retry queue during shutdown"
	LogMsgShutdownTimeout       = "Resilient publisher shutdown timed out"
	LogMsgEventDeadLettered     = "Event written to dead-letter"

	LogMsgHandlerErrorFormat = "encountered %d errors while handling event %s: %v"
)

// CalculateRetryDelay doubles baseDelay per attempt: base, 2·base, 4·base, ...
func CalculateRetryDelay(baseDelay time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return baseDelay << (attempt - 1)
}
