package model

import "time"

// Audit outcomes recorded for intake attempts and acceptance commits.
const (
	AuditStored            = "stored"
	AuditRejectedTooLarge  = "rejected_too_large"
	AuditRejectedCategory  = "rejected_unsupported_category"
	AuditStorageFailed     = "storage_failed"
	AuditBodyReadFailed    = "body_read_failed"
	AuditAcceptanceCommit  = "acceptance_committed"
	AuditAcceptanceFailed  = "acceptance_failed"
	AuditAcceptanceDeleted = "acceptance_deleted"
)

// AuditLogEntry is one append-only audit trail record. Entries are never
// updated or deleted by normal operation.
type AuditLogEntry struct {
	ID           int64     `json:"id"`
	RequestID    string    `json:"request_id"`
	EventID      string    `json:"event_id"`
	AcceptanceID string    `json:"acceptance_id,omitempty"`
	Category     string    `json:"category,omitempty"`
	Label        string    `json:"label,omitempty"`
	Outcome      string    `json:"outcome"`
	Detail       string    `json:"detail,omitempty"`
	OriginalSize int64     `json:"original_size,omitempty"`
	StoredSize   int64     `json:"stored_size,omitempty"`
	StoragePath  string    `json:"storage_path,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
