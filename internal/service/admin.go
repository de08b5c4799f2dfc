package service

import (
	"archive/zip"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/encarrerauy/encarreraok/internal/audit"
	"github.com/encarrerauy/encarreraok/internal/model"
	"github.com/encarrerauy/encarreraok/internal/repository"
	"github.com/encarrerauy/encarreraok/internal/storage"
)

// EvidenceCheck is the verification result for one stored evidence file.
type EvidenceCheck struct {
	Label       string `json:"label"`
	StoragePath string `json:"storage_path"`
	Present     bool   `json:"present"`
}

// VerificationReport summarizes whether every evidence file an acceptance
// references is still present in the blob store.
type VerificationReport struct {
	AcceptanceID string          `json:"acceptance_id"`
	Complete     bool            `json:"complete"`
	Files        []EvidenceCheck `json:"files"`
}

// AdminService exposes the review operations over recorded acceptances.
type AdminService interface {
	List(ctx context.Context, eventID string, page repository.PageQuery) (*repository.PageResult[model.Acceptance], error)
	Get(ctx context.Context, id string) (*model.Acceptance, error)
	Verify(ctx context.Context, id string) (*VerificationReport, error)
	Export(ctx context.Context, id string, w io.Writer) error
	Delete(ctx context.Context, id string) error
}

type adminService struct {
	repo        repository.AcceptanceRepository
	disclaimers DisclaimerService
	store       storage.Storage
	audit       audit.Recorder
}

// NewAdminService constructs the acceptance review service.
func NewAdminService(repo repository.AcceptanceRepository, disclaimers DisclaimerService, store storage.Storage, rec audit.Recorder) AdminService {
	return &adminService{repo: repo, disclaimers: disclaimers, store: store, audit: rec}
}

func (s *adminService) List(ctx context.Context, eventID string, page repository.PageQuery) (*repository.PageResult[model.Acceptance], error) {
	if page.Limit <= 0 || page.Limit > 100 {
		page.Limit = 50
	}
	if page.Offset < 0 {
		page.Offset = 0
	}
	return s.repo.List(ctx, eventID, page)
}

func (s *adminService) Get(ctx context.Context, id string) (*model.Acceptance, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	acc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return acc, nil
}

// Verify checks each referenced evidence file against the blob store without
// reading its content.
func (s *adminService) Verify(ctx context.Context, id string) (*VerificationReport, error) {
	acc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	report := &VerificationReport{AcceptanceID: acc.ID, Complete: true}
	for _, ef := range acc.Evidence {
		present, err := s.store.Exists(ctx, ef.StoragePath)
		if err != nil {
			return nil, fmt.Errorf("verify %s: %w", ef.StoragePath, err)
		}
		if !present {
			report.Complete = false
		}
		report.Files = append(report.Files, EvidenceCheck{
			Label:       ef.Label,
			StoragePath: ef.StoragePath,
			Present:     present,
		})
	}
	return report, nil
}

// exportMetadata is the metadata.json document inside an export archive.
type exportMetadata struct {
	Acceptance model.Acceptance `json:"acceptance"`
	Disclaimer struct {
		HashSHA256 string `json:"hash_sha256"`
		Body       string `json:"body,omitempty"`
	} `json:"disclaimer"`
}

// Export streams a ZIP archive with the acceptance metadata, the waiver text
// the participant accepted, and every evidence file.
func (s *adminService) Export(ctx context.Context, id string, w io.Writer) error {
	acc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)

	meta := exportMetadata{Acceptance: *acc}
	meta.Disclaimer.HashSHA256 = acc.DisclaimerHashSHA256
	if version, err := s.disclaimers.GetByHash(ctx, acc.EventID, acc.DisclaimerHashSHA256); err == nil {
		meta.Disclaimer.Body = version.Body
		entry, err := zw.Create("disclaimer.txt")
		if err != nil {
			return err
		}
		if _, err := io.WriteString(entry, version.Body); err != nil {
			return err
		}
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	entry, err := zw.Create("metadata.json")
	if err != nil {
		return err
	}
	enc := json.NewEncoder(entry)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return err
	}

	for _, ef := range acc.Evidence {
		if err := s.copyEvidence(ctx, zw, ef); err != nil {
			return err
		}
	}
	return zw.Close()
}

func (s *adminService) copyEvidence(ctx context.Context, zw *zip.Writer, ef model.EvidenceFile) error {
	rc, _, err := s.store.Get(ctx, ef.StoragePath)
	if err != nil {
		return fmt.Errorf("export %s: %w", ef.StoragePath, err)
	}
	defer rc.Close()

	name := path.Join("evidence", ef.Label+path.Ext(ef.StoragePath))
	entry, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(entry, rc)
	return err
}

// Delete removes the evidence files first and the database rows last, so a
// partial failure leaves rows pointing at whatever files remain. A retry can
// then finish the job; rows are only dropped once every file is gone.
func (s *adminService) Delete(ctx context.Context, id string) error {
	acc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	var remaining []string
	for _, ef := range acc.Evidence {
		if err := s.store.Delete(ctx, ef.StoragePath); err != nil {
			remaining = append(remaining, ef.StoragePath)
		}
	}
	if len(remaining) > 0 {
		return &OrphanedEvidenceError{AcceptanceID: acc.ID, Paths: remaining}
	}

	if err := s.repo.Delete(ctx, acc.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	s.audit.Record(ctx, model.AuditLogEntry{
		EventID:      acc.EventID,
		AcceptanceID: acc.ID,
		Outcome:      model.AuditAcceptanceDeleted,
		Detail:       fmt.Sprintf("evidence_files=%d", len(acc.Evidence)),
	})
	return nil
}
