package model

import "time"

// Event is a sporting event that collects waiver acceptances.
// Pure domain model with no database-specific dependencies or tags;
// it can be used across layers (HTTP, service, storage) without coupling
// to persistence.
type Event struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	EventDate        time.Time `json:"event_date"`
	Organizer        string    `json:"organizer"`
	Active           bool      `json:"active"`
	RequireSignature bool      `json:"require_signature"`
	RequireDocument  bool      `json:"require_document"`
	RequireAudio     bool      `json:"require_audio"`
	CreatedAt        time.Time `json:"created_at"`
}
