package gateway

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event type constants
const (
	EventTypeOrderCreated    = "ORDER_CREATED"
	EventTypeOrderAcked      = "ORDER_ACKED"
	EventTypeOrderFilled     = "ORDER_FILLED"
	EventTypeOrderRejected   = "ORDER_REJECTED"
	EventTypeMessageRejected = "MESSAGE_REJECTED"
)

// Event is one journal line. Data carries event-specific detail (risk
// reason, new position, raw message for message-level rejections).
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	EventType string         `json:"event_type"`
	OrderID   uuid.UUID      `json:"order_id,omitempty"`
	Symbol    string         `json:"symbol,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// Journal appends events to a JSONL file. A nil *Journal is valid and
// discards everything, so callers don't branch on whether journaling is
// configured.
type Journal struct {
	filePath string
	file     *os.File
	writer   *bufio.Writer
	mu       sync.Mutex
	log      *zap.Logger
}

// NewJournal creates or opens the journal file, creating parent directories
// as needed.
func NewJournal(log *zap.Logger, path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal file: %w", err)
	}
	return &Journal{
		filePath: path,
		file:     f,
		writer:   bufio.NewWriter(f),
		log:      log,
	}, nil
}

// Record appends one event. Journal failures are logged, not propagated:
// the trading path must not stall on the audit trail.
func (j *Journal) Record(eventType string, orderID uuid.UUID, symbol string, data map[string]any) {
	if j == nil {
		return
	}
	event := Event{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		OrderID:   orderID,
		Symbol:    symbol,
		Data:      data,
	}
	line, err := json.Marshal(event)
	if err != nil {
		j.log.Error("Failed to marshal journal event", zap.Error(err), zap.String("event_type", eventType))
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if _, err := j.writer.Write(append(line, '\n')); err != nil {
		j.log.Error("Failed to write journal event", zap.Error(err), zap.String("path", j.filePath))
	}
}

// Flush forces buffered events to disk.
func (j *Journal) Flush() error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.writer.Flush()
}

// Close flushes and closes the journal file.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.writer.Flush(); err != nil {
		return err
	}
	return j.file.Close()
}
