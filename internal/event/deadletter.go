package event

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/osse101/playcredits/internal/logger"
)

// DeadLetterSchemaVersion versions the JSON-lines format below
const DeadLetterSchemaVersion = "1.0"

var errAlreadyClosed = errors.New("dead letter writer already closed")

// DeadLetterEntry is one undeliverable event, written as a single JSON line
type DeadLetterEntry struct {
	SchemaVersion string    `json:"schema_version"`
	Timestamp     time.Time `json:"timestamp"`
	Event         Event     `json:"event"`
	Attempts      int       `json:"attempts"`
	LastError     string    `json:"last_error,omitempty"`
}

// DeadLetterWriter appends entries to a dead-letter file. Safe for concurrent use.
type DeadLetterWriter struct {
	mu     sync.Mutex
	file   *os.File
	enc    *json.Encoder
	closed bool
	now    func() time.Time
}

// NewDeadLetterWriter opens path for appending, creating it if needed
func NewDeadLetterWriter(path string) (*DeadLetterWriter, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, DeadLetterFilePermissions)
	if err != nil {
		return nil, err
	}
	return &DeadLetterWriter{file: f, enc: json.NewEncoder(f), now: time.Now}, nil
}

// Write records evt after attempts failed deliveries
func (w *DeadLetterWriter) Write(evt Event, attempts int, lastErr error) error {
	entry := DeadLetterEntry{
		SchemaVersion: DeadLetterSchemaVersion,
		Event:         evt,
		Attempts:      attempts,
	}
	if lastErr != nil {
		entry.LastError = lastErr.Error()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errAlreadyClosed
	}
	entry.Timestamp = w.now()

	logger.Warn(LogMsgEventDeadLettered,
		"event_type", evt.Type,
		"event_id", evt.ID,
		"attempts", attempts,
		"error", entry.LastError)

	// Encoder terminates each entry with a newline
	return w.enc.Encode(entry)
}

// Close closes the file. A second Close returns errAlreadyClosed.
func (w *DeadLetterWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errAlreadyClosed
	}
	w.closed = true
	return w.file.Close()
}

// ReadDeadLetters loads every entry of a dead-letter file, oldest first.
// A missing file holds no entries.
func ReadDeadLetters(path string) ([]DeadLetterEntry, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []DeadLetterEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64<<10), MaxDeadLetterLineBytes)
	for line := 1; scanner.Scan(); line++ {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var e DeadLetterEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return entries, fmt.Errorf("%s %s:%d: %w", ErrMsgDecodeDeadLetter, path, line, err)
		}
		entries = append(entries, e)
	}
	return entries, scanner.Err()
}
