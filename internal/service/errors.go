package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrIDRequired    = errors.New("id is required")
	ErrEventNotFound = errors.New("event not found")
	ErrEventInactive = errors.New("event is inactive")
	ErrNotFound      = errors.New("acceptance not found")

	// ErrNoActiveVersion means the event has no active waiver version.
	// Misconfiguration: new acceptances for the event are blocked.
	ErrNoActiveVersion = errors.New("no active disclaimer version for event")

	ErrTextRequired     = errors.New("disclaimer text is required")
	ErrNameRequired     = errors.New("participant name is required")
	ErrDocumentRequired = errors.New("document number is required")
	ErrNotAccepted      = errors.New("the disclaimer was not accepted")

	// ErrEvidenceRequired marks a missing required evidence payload.
	// The concrete *MissingEvidenceError names the missing piece.
	ErrEvidenceRequired = errors.New("required evidence missing")
)

// MissingEvidenceError reports which required evidence payload was absent.
type MissingEvidenceError struct {
	Label string
}

func (e *MissingEvidenceError) Error() string {
	return fmt.Sprintf("required evidence %q missing", e.Label)
}

func (e *MissingEvidenceError) Unwrap() error { return ErrEvidenceRequired }

// OrphanedEvidenceError reports evidence files that could not be removed
// during an acceptance deletion. The metadata rows are kept so the deletion
// can be retried; nothing is silently left unreported.
type OrphanedEvidenceError struct {
	AcceptanceID string
	Paths        []string
}

func (e *OrphanedEvidenceError) Error() string {
	return fmt.Sprintf("acceptance %s: could not remove evidence: %s", e.AcceptanceID, strings.Join(e.Paths, ", "))
}
