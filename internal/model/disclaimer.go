package model

import "time"

// DisclaimerVersion is one immutable version of an event's waiver text.
// The hash is computed once at creation time and never recomputed; the text
// is never edited in place; a change always creates a new version.
// At most one version per event is active at any time.
type DisclaimerVersion struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	Body       string    `json:"body"`
	HashSHA256 string    `json:"hash_sha256"`
	Active     bool      `json:"active"`
	CreatedBy  string    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}
