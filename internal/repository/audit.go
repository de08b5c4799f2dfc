package repository

import (
	"context"

	"github.com/encarrerauy/encarreraok/internal/model"
)

// AuditRepository appends audit trail rows. The table is append-only:
// there are deliberately no update or delete operations.
type AuditRepository interface {
	Insert(ctx context.Context, entry *model.AuditLogEntry) error
}
