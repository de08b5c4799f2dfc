// Package audit writes the tamper-evident intake trail. Every evidence
// intake attempt and every acceptance commit or failure produces one entry.
// Recording is best effort: a failing audit write degrades to a structured
// warning on the process log and never blocks or reverses the operation that
// produced it.
package audit

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/encarrerauy/encarreraok/internal/model"
	"github.com/encarrerauy/encarreraok/internal/repository"
)

// Recorder is the write side of the audit trail.
type Recorder interface {
	Record(ctx context.Context, entry model.AuditLogEntry)
}

// Logger appends entries through an AuditRepository with a bounded write
// timeout so a slow store cannot stall the request path.
type Logger struct {
	repo    repository.AuditRepository
	timeout time.Duration
}

// NewLogger creates an audit Logger. A non-positive timeout falls back to
// two seconds.
func NewLogger(repo repository.AuditRepository, timeout time.Duration) *Logger {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Logger{repo: repo, timeout: timeout}
}

var _ Recorder = (*Logger)(nil)

// Record appends one entry. The write detaches from the request's
// cancellation so an aborted request still leaves its trail, but keeps the
// request's trace context.
func (l *Logger) Record(ctx context.Context, entry model.AuditLogEntry) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
	defer cancel()

	if err := l.repo.Insert(wctx, &entry); err != nil {
		warn(entry, err)
	}
}

// warn emits the entry on the fallback channel (process log, one JSON line)
// when the audit store is unavailable.
func warn(entry model.AuditLogEntry, cause error) {
	payload := map[string]any{
		"ts":         time.Now().UTC().Format(time.RFC3339Nano),
		"level":      "warn",
		"msg":        "audit_write_failed",
		"error":      cause.Error(),
		"request_id": entry.RequestID,
		"event_id":   entry.EventID,
		"outcome":    entry.Outcome,
	}
	if b, err := json.Marshal(payload); err == nil {
		log.SetFlags(0)
		log.Println(string(b))
	}
}
