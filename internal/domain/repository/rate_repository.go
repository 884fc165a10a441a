// Package repository internal/domain/repository/rate_repository.go
package repository

import (
	"context"
	"time"

	"github.com/dkarpov/currency-exchange-service/internal/domain/entity"
)

// RateRepository defines the interface for rate record storage
type RateRepository interface {
	// GetRate returns the latest record for a currency code. Lookup is
	// case-insensitive; entity.ErrRateNotFound is returned for unknown codes.
	GetRate(ctx context.Context, code string) (*entity.RateRecord, error)

	// Upsert inserts or overwrites the record for a currency code. The
	// previous value is discarded; no rate history is retained.
	Upsert(ctx context.Context, code string, rate float64, updated time.Time) error

	// ListCodes returns all known currency codes
	ListCodes(ctx context.Context) ([]string, error)
}
