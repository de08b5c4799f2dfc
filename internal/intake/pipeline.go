// Package intake validates, optionally compresses, and durably stores
// untrusted evidence uploads. Size ceilings are enforced here independently
// of any reverse-proxy limit in front of the service: the outer layer may
// already reject oversized requests, but is never trusted to.
package intake

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/encarrerauy/encarreraok/internal/audit"
	"github.com/encarrerauy/encarreraok/internal/config"
	"github.com/encarrerauy/encarreraok/internal/hash"
	"github.com/encarrerauy/encarreraok/internal/model"
	"github.com/encarrerauy/encarreraok/internal/storage"
)

// Request carries one evidence upload through the pipeline.
type Request struct {
	RequestID    string
	EventID      string
	Category     Category
	Label        string // e.g. "signature", "document_front", "document_back", "audio"
	Filename     string // client-declared name; used only to pick an extension
	DeclaredSize int64  // client-declared length; <= 0 means unknown
	Body         io.Reader
}

// Pipeline is the evidence intake pipeline. Every attempt, accepted or
// rejected, produces exactly one audit entry.
type Pipeline struct {
	store  storage.Storage
	audit  audit.Recorder
	policy config.EvidenceConfig
}

// NewPipeline creates an intake pipeline over the given blob store and audit
// recorder, enforcing the configured size policy.
func NewPipeline(store storage.Storage, rec audit.Recorder, policy config.EvidenceConfig) *Pipeline {
	return &Pipeline{store: store, audit: rec, policy: policy}
}

// ceiling is the hard limit on the stored size for a category.
func (p *Pipeline) ceiling(c Category) int64 {
	switch c {
	case CategorySignature:
		return p.policy.SignatureMaxBytes
	case CategoryDocumentImage:
		return p.policy.ImageMaxBytes
	case CategoryAudio:
		return p.policy.AudioMaxBytes
	}
	return 0
}

// readCap bounds how many bytes are read from the body at all. For images it
// exceeds the ceiling, because compression may bring an over-ceiling upload
// back under it; everything else is cut off at the ceiling.
func (p *Pipeline) readCap(c Category) int64 {
	if c == CategoryDocumentImage && p.policy.ImageIntakeCapBytes > p.policy.ImageMaxBytes {
		return p.policy.ImageIntakeCapBytes
	}
	return p.ceiling(c)
}

// Ingest runs one upload through pre-check, optional compression, and atomic
// persistence, and returns the evidence descriptor on success. No partial or
// corrupt file is ever visible under a final storage path on any failure.
func (p *Pipeline) Ingest(ctx context.Context, req Request) (*model.EvidenceFile, error) {
	if !req.Category.Valid() {
		p.record(ctx, req, model.AuditLogEntry{
			Outcome: model.AuditRejectedCategory,
			Detail:  fmt.Sprintf("category %q", req.Category),
		})
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCategory, req.Category)
	}

	ceiling := p.ceiling(req.Category)
	readCap := p.readCap(req.Category)

	// Pre-check on the declared length: refuse before reading the payload.
	if req.DeclaredSize > readCap {
		return nil, p.rejectSize(ctx, req, ceiling, req.DeclaredSize)
	}

	data, err := io.ReadAll(io.LimitReader(req.Body, readCap+1))
	if err != nil {
		p.record(ctx, req, model.AuditLogEntry{
			Outcome: model.AuditBodyReadFailed,
			Detail:  err.Error(),
		})
		return nil, fmt.Errorf("read evidence body: %w", err)
	}
	originalSize := int64(len(data))
	if originalSize > readCap {
		return nil, p.rejectSize(ctx, req, ceiling, originalSize)
	}

	stored := data
	ext := extensionFor(req.Category, req.Filename, data)

	if req.Category.Compressible() && originalSize > p.policy.ImageCompressThresholdBytes {
		if compressed, cErr := compressImage(data, p.policy.ImageCompressTargetBytes); cErr == nil && int64(len(compressed)) < originalSize {
			stored = compressed
			ext = ".jpg"
		}
		// Compression failure is not fatal by itself: the original is
		// still stored when it fits under the ceiling.
	}

	storedSize := int64(len(stored))
	if storedSize > ceiling {
		return nil, p.rejectSize(ctx, req, ceiling, originalSize)
	}

	key := path.Join(req.Category.Dir(), uuid.New().String()+ext)
	info, err := p.store.Put(ctx, key, bytes.NewReader(stored), storage.PutObjectOptions{
		Size:        storedSize,
		ContentType: contentTypeFor(ext),
		Metadata:    map[string]string{"label": req.Label},
	})
	if err != nil {
		p.record(ctx, req, model.AuditLogEntry{
			Outcome:      model.AuditStorageFailed,
			Detail:       err.Error(),
			OriginalSize: originalSize,
			StoredSize:   storedSize,
		})
		return nil, fmt.Errorf("%w: %w", ErrStorageWrite, err)
	}

	p.record(ctx, req, model.AuditLogEntry{
		Outcome:      model.AuditStored,
		OriginalSize: originalSize,
		StoredSize:   info.Size,
		StoragePath:  key,
	})

	return &model.EvidenceFile{
		ID:             uuid.New().String(),
		Category:       string(req.Category),
		Label:          req.Label,
		StoragePath:    key,
		OriginalSize:   originalSize,
		StoredSize:     storedSize,
		ChecksumSHA256: hash.Bytes(stored),
		CreatedAt:      time.Now().UTC(),
	}, nil
}

func (p *Pipeline) rejectSize(ctx context.Context, req Request, limit, size int64) error {
	p.record(ctx, req, model.AuditLogEntry{
		Outcome:      model.AuditRejectedTooLarge,
		Detail:       fmt.Sprintf("%d bytes over limit %d", size, limit),
		OriginalSize: size,
	})
	return &SizeError{Category: req.Category, Limit: limit, Size: size}
}

func (p *Pipeline) record(ctx context.Context, req Request, entry model.AuditLogEntry) {
	entry.RequestID = req.RequestID
	entry.EventID = req.EventID
	entry.Category = string(req.Category)
	entry.Label = req.Label
	p.audit.Record(ctx, entry)
}

var audioExtensions = map[string]bool{
	".webm": true,
	".mp3":  true,
	".wav":  true,
	".ogg":  true,
	".mp4":  true,
}

// extensionFor picks a storage extension. Nothing else of the client filename
// is ever used: stored names are freshly generated identifiers.
func extensionFor(c Category, filename string, data []byte) string {
	switch c {
	case CategorySignature:
		return ".png"
	case CategoryAudio:
		if ext := strings.ToLower(filepath.Ext(filename)); audioExtensions[ext] {
			return ext
		}
		return ".webm"
	default:
		switch http.DetectContentType(data) {
		case "image/png":
			return ".png"
		default:
			return ".jpg"
		}
	}
}

func contentTypeFor(ext string) string {
	switch ext {
	case ".png":
		return "image/png"
	case ".jpg":
		return "image/jpeg"
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	case ".mp4":
		return "audio/mp4"
	case ".webm":
		return "audio/webm"
	}
	return "application/octet-stream"
}
