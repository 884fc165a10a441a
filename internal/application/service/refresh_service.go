// Package service internal/application/service/refresh_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dkarpov/currency-exchange-service/internal/domain/entity"
	"github.com/dkarpov/currency-exchange-service/internal/domain/repository"
	domain "github.com/dkarpov/currency-exchange-service/internal/domain/service"
	"github.com/dkarpov/currency-exchange-service/internal/infrastructure/logger"
	"github.com/dkarpov/currency-exchange-service/internal/infrastructure/metrics"
	"github.com/dkarpov/currency-exchange-service/internal/infrastructure/middleware"
)

// RefreshService orchestrates fetching rates from the external provider
// and reconciling them into the rate store
type RefreshService struct {
	rates    repository.RateRepository
	updates  repository.UpdateLogRepository
	provider domain.RateProvider
	logger   logger.Logger
	metrics  *metrics.Metrics
}

// NewRefreshService creates a new refresh service
func NewRefreshService(rates repository.RateRepository, updates repository.UpdateLogRepository, provider domain.RateProvider, log logger.Logger, m *metrics.Metrics) *RefreshService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &RefreshService{
		rates:    rates,
		updates:  updates,
		provider: provider,
		logger:   log,
		metrics:  m,
	}
}

// Refresh fetches the latest rates relative to base and stores every
// returned currency, the base itself included at 1.0. The outcome,
// success or failure, is appended to the update log. Currencies stored
// before a mid-batch fault stay stored; only the log entry reflects the
// overall result.
func (s *RefreshService) Refresh(ctx context.Context, base string) (string, error) {
	requestID := middleware.GetRequestID(ctx)
	base = strings.ToUpper(strings.TrimSpace(base))

	s.logger.Info("Refreshing exchange rates", map[string]interface{}{
		"request_id": requestID,
		"base":       base,
	})

	sheet, err := s.provider.FetchRates(ctx, base)
	if err != nil {
		s.logger.Error("Failed to fetch exchange rates", map[string]interface{}{
			"request_id": requestID,
			"base":       base,
			"error":      err.Error(),
		})
		s.recordOutcome(ctx, false, err.Error())
		return "", err
	}

	stored := 0
	for code, rate := range sheet.Rates {
		if upsertErr := s.rates.Upsert(ctx, code, rate, sheet.AsOf); upsertErr != nil {
			err := fmt.Errorf("failed to store rate for %s: %w", code, upsertErr)
			s.logger.Error("Refresh aborted mid-batch", map[string]interface{}{
				"request_id": requestID,
				"base":       base,
				"stored":     stored,
				"error":      err.Error(),
			})
			s.recordOutcome(ctx, false, err.Error())
			return "", err
		}
		stored++
	}

	message := fmt.Sprintf("exchange rates updated for %s (%d currencies)", base, stored)
	s.recordOutcome(ctx, true, message)

	s.logger.Info("Exchange rates refreshed", map[string]interface{}{
		"request_id": requestID,
		"base":       base,
		"as_of":      sheet.AsOf.Format("2006-01-02"),
		"stored":     stored,
	})

	return message, nil
}

// LastSuccessfulUpdate returns the time of the most recent successful
// refresh; entity.ErrNoSuccessfulUpdate when there has never been one
func (s *RefreshService) LastSuccessfulUpdate(ctx context.Context) (time.Time, error) {
	return s.updates.MostRecentSuccess(ctx)
}

// recordOutcome appends an update log entry and counts the attempt. A
// failure to write the log must not mask the refresh outcome, so it is
// logged and dropped rather than returned.
func (s *RefreshService) recordOutcome(ctx context.Context, success bool, message string) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	if s.metrics != nil {
		s.metrics.RefreshesTotal.WithLabelValues(outcome).Inc()
	}

	entry := &entity.UpdateLogEntry{
		UpdateTime: time.Now().UTC(),
		Success:    success,
		Message:    message,
	}

	if err := s.updates.Append(ctx, entry); err != nil {
		s.logger.Error("Failed to append update log entry", map[string]interface{}{
			"success": success,
			"message": message,
			"error":   err.Error(),
		})
	}
}
