package service

import (
	"context"

	"github.com/dkarpov/currency-exchange-service/internal/domain/entity"
)

// RateProvider defines the interface for external exchange rate sources
type RateProvider interface {
	// FetchRates retrieves the latest rates expressed relative to base.
	// Failures are reported as *entity.FetchError.
	FetchRates(ctx context.Context, base string) (*entity.RateSheet, error)
}
