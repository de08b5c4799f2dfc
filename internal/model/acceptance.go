package model

import "time"

// Acceptance is one participant's recorded agreement to an event's waiver.
// It references the waiver by the content hash of the version that was active
// at submission time, so a later version change never alters what was agreed.
// Immutable after creation except for administrative deletion.
type Acceptance struct {
	ID                   string         `json:"id"`
	EventID              string         `json:"event_id"`
	ParticipantName      string         `json:"participant_name"`
	DocumentNumber       string         `json:"document_number"`
	DisclaimerHashSHA256 string         `json:"disclaimer_hash_sha256"`
	IP                   string         `json:"ip"`
	UserAgent            string         `json:"user_agent"`
	AcceptedAt           time.Time      `json:"accepted_at"`
	Evidence             []EvidenceFile `json:"evidence"`
}

// EvidenceFile is the metadata record for one stored evidence artifact.
// The bytes live only in blob storage; the transactional store holds this
// record and the storage path, never the content.
type EvidenceFile struct {
	ID             string    `json:"id"`
	AcceptanceID   string    `json:"acceptance_id"`
	Category       string    `json:"category"`
	Label          string    `json:"label"`
	StoragePath    string    `json:"storage_path"`
	OriginalSize   int64     `json:"original_size"`
	StoredSize     int64     `json:"stored_size"`
	ChecksumSHA256 string    `json:"checksum_sha256"`
	CreatedAt      time.Time `json:"created_at"`
}
