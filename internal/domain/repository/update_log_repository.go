package repository

import (
	"context"
	"time"

	"github.com/dkarpov/currency-exchange-service/internal/domain/entity"
)

// UpdateLogRepository defines the interface for the append-only refresh log
type UpdateLogRepository interface {
	// Append durably writes an entry. Entries are never modified or deleted.
	Append(ctx context.Context, entry *entity.UpdateLogEntry) error

	// MostRecentSuccess returns the update time of the newest entry with
	// Success=true; entity.ErrNoSuccessfulUpdate when none exists.
	MostRecentSuccess(ctx context.Context) (time.Time, error)
}
