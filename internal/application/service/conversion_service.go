// Package service internal/application/service/conversion_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dkarpov/currency-exchange-service/internal/domain/entity"
	"github.com/dkarpov/currency-exchange-service/internal/domain/repository"
	"github.com/dkarpov/currency-exchange-service/internal/infrastructure/logger"
	"github.com/dkarpov/currency-exchange-service/internal/infrastructure/metrics"
)

// popularCurrencies are pinned to the top of the selectable list
var popularCurrencies = []string{"USD", "RUB", "EUR", "GBP", "JPY", "CNY"}

// ConversionService converts amounts between currencies using stored
// rates, routing every conversion through the reference currency
type ConversionService struct {
	rates     repository.RateRepository
	reference string
	logger    logger.Logger
	metrics   *metrics.Metrics
}

// NewConversionService creates a new conversion service
func NewConversionService(rates repository.RateRepository, reference string, log logger.Logger, m *metrics.Metrics) *ConversionService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ConversionService{
		rates:     rates,
		reference: strings.ToUpper(strings.TrimSpace(reference)),
		logger:    log,
		metrics:   m,
	}
}

// Convert computes the amount of the target currency equivalent to amount
// of the source currency. The result is rounded to two decimal places,
// half away from zero. Conversion failures are returned to the caller
// and never touch the update log.
func (s *ConversionService) Convert(ctx context.Context, from, to string, amount float64) (float64, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))

	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, s.fail(entity.ErrInvalidAmount)
	}

	if from == to {
		s.count("ok")
		return roundCents(amount), nil
	}

	rateFrom, err := s.resolveRate(ctx, from)
	if err != nil {
		return 0, s.fail(err)
	}

	rateTo, err := s.resolveRate(ctx, to)
	if err != nil {
		return 0, s.fail(err)
	}

	// The store does not forbid a zero rate, so check explicitly instead
	// of letting the division blow up
	if rateFrom == 0 {
		return 0, s.fail(entity.ErrZeroRate)
	}

	amountInReference := amount / rateFrom
	result := roundCents(amountInReference * rateTo)

	s.logger.Debug("Conversion computed", map[string]interface{}{
		"from":      from,
		"to":        to,
		"amount":    amount,
		"rate_from": rateFrom,
		"rate_to":   rateTo,
		"result":    result,
	})

	s.count("ok")
	return result, nil
}

// DescribeRate formats the pairwise rate as "1 FROM = X.XXXX TO". The
// rate is rateTo/rateFrom over the same resolution rules as Convert,
// which reduces to rateTo when from is the reference currency and to
// 1/rateFrom when to is.
func (s *ConversionService) DescribeRate(ctx context.Context, from, to string) (string, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))

	rateFrom, err := s.resolveRate(ctx, from)
	if err != nil {
		return "", err
	}

	rateTo, err := s.resolveRate(ctx, to)
	if err != nil {
		return "", err
	}

	if rateFrom == 0 {
		return "", entity.ErrZeroRate
	}

	return fmt.Sprintf("1 %s = %.4f %s", from, rateTo/rateFrom, to), nil
}

// ListCurrencies returns the selectable currency codes. The popular ones
// always lead the list, even before the store holds a rate for them, and
// the remaining stored codes follow in alphabetical order.
func (s *ConversionService) ListCurrencies(ctx context.Context) ([]string, error) {
	codes, err := s.rates.ListCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}

	pinned := make(map[string]bool, len(popularCurrencies))
	for _, code := range popularCurrencies {
		pinned[code] = true
	}

	list := make([]string, 0, len(popularCurrencies)+len(codes))
	list = append(list, popularCurrencies...)

	// codes are already sorted by the repository
	for _, code := range codes {
		if !pinned[code] {
			list = append(list, code)
		}
	}

	return list, nil
}

// resolveRate returns the stored rate for code relative to the reference
// currency. The reference itself is always 1.0, without a lookup.
func (s *ConversionService) resolveRate(ctx context.Context, code string) (float64, error) {
	if code == s.reference {
		return 1.0, nil
	}

	record, err := s.rates.GetRate(ctx, code)
	if err != nil {
		if errors.Is(err, entity.ErrRateNotFound) {
			return 0, &entity.UnknownCurrencyError{Code: code}
		}
		return 0, err
	}

	return record.Rate, nil
}

func (s *ConversionService) count(status string) {
	if s.metrics != nil {
		s.metrics.ConversionsTotal.WithLabelValues(status).Inc()
	}
}

func (s *ConversionService) fail(err error) error {
	s.count("error")
	return err
}

// roundCents rounds half away from zero to two decimal places
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
