package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/encarrerauy/encarreraok/internal/audit"
	"github.com/encarrerauy/encarreraok/internal/intake"
	"github.com/encarrerauy/encarreraok/internal/model"
	"github.com/encarrerauy/encarreraok/internal/repository"
)

// EvidenceIngester is the slice of the intake pipeline the recorder needs.
type EvidenceIngester interface {
	Ingest(ctx context.Context, req intake.Request) (*model.EvidenceFile, error)
}

// EvidencePayload is one uploaded evidence body plus its declared metadata.
type EvidencePayload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// SubmitRequest carries a full acceptance submission.
type SubmitRequest struct {
	RequestID       string
	EventID         string
	ParticipantName string
	DocumentNumber  string
	Accepted        bool
	IP              string
	UserAgent       string

	Signature     *EvidencePayload
	DocumentFront *EvidencePayload
	DocumentBack  *EvidencePayload
	Audio         *EvidencePayload
}

// AcceptanceService records acceptances. One call either produces one
// immutable acceptance row bound to the active waiver hash, or fails whole.
type AcceptanceService interface {
	Submit(ctx context.Context, req SubmitRequest) (*model.Acceptance, error)
}

type acceptanceService struct {
	events      repository.EventRepository
	disclaimers DisclaimerService
	ingester    EvidenceIngester
	repo        repository.AcceptanceRepository
	audit       audit.Recorder
}

// NewAcceptanceService constructs the acceptance recorder.
func NewAcceptanceService(
	events repository.EventRepository,
	disclaimers DisclaimerService,
	ingester EvidenceIngester,
	repo repository.AcceptanceRepository,
	rec audit.Recorder,
) AcceptanceService {
	return &acceptanceService{
		events:      events,
		disclaimers: disclaimers,
		ingester:    ingester,
		repo:        repo,
		audit:       rec,
	}
}

var documentSeparators = regexp.MustCompile(`[.\-\s]`)

// normalizeDocument strips dots, dashes and whitespace and uppercases the
// identifier, so the same document always stores identically.
func normalizeDocument(doc string) string {
	return strings.ToUpper(documentSeparators.ReplaceAllString(doc, ""))
}

// requiredPiece pairs an evidence slot with its intake classification.
type requiredPiece struct {
	label    string
	category intake.Category
	payload  *EvidencePayload
	required bool
}

// Submit validates the submission, resolves the active waiver version before
// touching any evidence, runs each payload through the intake pipeline, and
// commits one acceptance row referencing the resolved hash and the stored
// evidence paths. If any required piece fails, the whole submission fails;
// files already written by the attempt are not deleted; no acceptance row
// will ever reference them.
func (s *acceptanceService) Submit(ctx context.Context, req SubmitRequest) (*model.Acceptance, error) {
	if strings.TrimSpace(req.ParticipantName) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(req.DocumentNumber) == "" {
		return nil, ErrDocumentRequired
	}
	if !req.Accepted {
		return nil, ErrNotAccepted
	}

	ev, err := s.events.FindByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if !ev.Active {
		return nil, ErrEventInactive
	}

	version, err := s.disclaimers.GetActive(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	pieces := []requiredPiece{
		{label: "signature", category: intake.CategorySignature, payload: req.Signature, required: ev.RequireSignature},
		{label: "document_front", category: intake.CategoryDocumentImage, payload: req.DocumentFront, required: ev.RequireDocument},
		{label: "document_back", category: intake.CategoryDocumentImage, payload: req.DocumentBack, required: ev.RequireDocument},
		{label: "audio", category: intake.CategoryAudio, payload: req.Audio, required: ev.RequireAudio},
	}

	files := make([]model.EvidenceFile, 0, len(pieces))
	for _, piece := range pieces {
		if piece.payload == nil {
			if piece.required {
				err := &MissingEvidenceError{Label: piece.label}
				s.auditFailure(ctx, req, err)
				return nil, err
			}
			continue
		}
		ef, err := s.ingester.Ingest(ctx, intake.Request{
			RequestID:    req.RequestID,
			EventID:      req.EventID,
			Category:     piece.category,
			Label:        piece.label,
			Filename:     piece.payload.Filename,
			DeclaredSize: piece.payload.Size,
			Body:         piece.payload.Body,
		})
		if err != nil {
			// The pipeline already audited the intake attempt itself.
			s.auditFailure(ctx, req, err)
			return nil, err
		}
		files = append(files, *ef)
	}

	acc := &model.Acceptance{
		ID:                   uuid.New().String(),
		EventID:              req.EventID,
		ParticipantName:      strings.TrimSpace(req.ParticipantName),
		DocumentNumber:       normalizeDocument(req.DocumentNumber),
		DisclaimerHashSHA256: version.HashSHA256,
		IP:                   req.IP,
		UserAgent:            req.UserAgent,
		AcceptedAt:           time.Now().UTC().Truncate(time.Second),
		Evidence:             files,
	}

	stored, err := s.repo.Create(ctx, acc)
	if err != nil {
		s.auditFailure(ctx, req, err)
		return nil, err
	}

	s.audit.Record(ctx, model.AuditLogEntry{
		RequestID:    req.RequestID,
		EventID:      req.EventID,
		AcceptanceID: stored.ID,
		Outcome:      model.AuditAcceptanceCommit,
	})
	return stored, nil
}

func (s *acceptanceService) auditFailure(ctx context.Context, req SubmitRequest, cause error) {
	s.audit.Record(ctx, model.AuditLogEntry{
		RequestID: req.RequestID,
		EventID:   req.EventID,
		Outcome:   model.AuditAcceptanceFailed,
		Detail:    cause.Error(),
	})
}
