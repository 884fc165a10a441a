// internal/application/service/conversion_service_test.go
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/dkarpov/currency-exchange-service/internal/domain/entity"
	"github.com/dkarpov/currency-exchange-service/internal/infrastructure/logger"
	"github.com/dkarpov/currency-exchange-service/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newStubRates returns a mock repository preloaded with the scenario
// rates USD:1.0, EUR:0.92, RUB:90.0 relative to USD
func newStubRates() *mocks.MockRateRepository {
	repo := new(mocks.MockRateRepository)
	ctx := context.Background()
	updated := time.Date(2023, 4, 10, 0, 0, 0, 0, time.UTC)

	for code, rate := range map[string]float64{"USD": 1.0, "EUR": 0.92, "RUB": 90.0} {
		repo.On("GetRate", ctx, code).
			Return(&entity.RateRecord{Code: code, Rate: rate, LastUpdated: updated}, nil).
			Maybe()
	}
	return repo
}

func newConversionService(repo *mocks.MockRateRepository) *ConversionService {
	log := logger.NewJSONLogger(nil, logger.ErrorLevel)
	return NewConversionService(repo, "USD", log, nil)
}

func TestConvert(t *testing.T) {
	ctx := context.Background()
	service := newConversionService(newStubRates())

	t.Run("Reference to stored currency", func(t *testing.T) {
		// 100 / 1.0 * 0.92
		result, err := service.Convert(ctx, "USD", "EUR", 100)
		require.NoError(t, err)
		assert.Equal(t, 92.00, result)
	})

	t.Run("Cross rate through the reference", func(t *testing.T) {
		// 100 / 0.92 * 90.0 = 9782.608..., rounded to cents
		result, err := service.Convert(ctx, "EUR", "RUB", 100)
		require.NoError(t, err)
		assert.Equal(t, 9782.61, result)
	})

	t.Run("Stored currency to reference", func(t *testing.T) {
		// 90 / 90.0 * 1.0
		result, err := service.Convert(ctx, "RUB", "USD", 90)
		require.NoError(t, err)
		assert.Equal(t, 1.00, result)
	})

	t.Run("Same currency skips lookups", func(t *testing.T) {
		repo := new(mocks.MockRateRepository)
		service := newConversionService(repo)

		result, err := service.Convert(ctx, "eur", "EUR", 123.456)
		require.NoError(t, err)
		assert.Equal(t, 123.46, result)
		repo.AssertNotCalled(t, "GetRate")
	})

	t.Run("Codes are normalized to uppercase", func(t *testing.T) {
		result, err := service.Convert(ctx, "usd", " eur ", 100)
		require.NoError(t, err)
		assert.Equal(t, 92.00, result)
	})

	t.Run("Round trip approximates the original amount", func(t *testing.T) {
		forward, err := service.Convert(ctx, "EUR", "RUB", 250)
		require.NoError(t, err)

		back, err := service.Convert(ctx, "RUB", "EUR", forward)
		require.NoError(t, err)
		assert.InDelta(t, 250, back, 0.02)
	})

	t.Run("Minimum boundary amount is accepted", func(t *testing.T) {
		result, err := service.Convert(ctx, "USD", "USD", 0.01)
		require.NoError(t, err)
		assert.Equal(t, 0.01, result)
	})

	t.Run("Invalid amounts", func(t *testing.T) {
		for _, amount := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
			_, err := service.Convert(ctx, "USD", "EUR", amount)
			assert.ErrorIs(t, err, entity.ErrInvalidAmount, "amount %v", amount)
		}
	})

	t.Run("Unknown source currency names the code", func(t *testing.T) {
		repo := newStubRates()
		repo.On("GetRate", ctx, "XYZ").Return(nil, entity.ErrRateNotFound)
		service := newConversionService(repo)

		_, err := service.Convert(ctx, "XYZ", "EUR", 100)
		var unknown *entity.UnknownCurrencyError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "XYZ", unknown.Code)
	})

	t.Run("Unknown target currency names the code", func(t *testing.T) {
		repo := newStubRates()
		repo.On("GetRate", ctx, "ZZZ").Return(nil, entity.ErrRateNotFound)
		service := newConversionService(repo)

		_, err := service.Convert(ctx, "EUR", "ZZZ", 100)
		var unknown *entity.UnknownCurrencyError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "ZZZ", unknown.Code)
	})

	t.Run("Zero stored rate", func(t *testing.T) {
		repo := newStubRates()
		repo.On("GetRate", ctx, "ZWD").
			Return(&entity.RateRecord{Code: "ZWD", Rate: 0}, nil)
		service := newConversionService(repo)

		_, err := service.Convert(ctx, "ZWD", "EUR", 100)
		assert.ErrorIs(t, err, entity.ErrZeroRate)
	})

	t.Run("Repository error passes through", func(t *testing.T) {
		repo := new(mocks.MockRateRepository)
		storeErr := errors.New("store unavailable")
		repo.On("GetRate", ctx, "EUR").Return(nil, storeErr)
		service := newConversionService(repo)

		_, err := service.Convert(ctx, "EUR", "USD", 100)
		assert.ErrorIs(t, err, storeErr)
	})
}

func TestConvertRounding(t *testing.T) {
	ctx := context.Background()
	service := newConversionService(newStubRates())

	// 1.125 is exactly representable in binary, so 112.5 cents is a true
	// half-cent boundary; half away from zero gives 1.13 where half to
	// even would give 1.12
	result, err := service.Convert(ctx, "USD", "USD", 1.125)
	require.NoError(t, err)
	assert.Equal(t, 1.13, result)

	result, err = service.Convert(ctx, "USD", "USD", 0.125)
	require.NoError(t, err)
	assert.Equal(t, 0.13, result)
}

func TestDescribeRate(t *testing.T) {
	ctx := context.Background()
	service := newConversionService(newStubRates())

	t.Run("From the reference currency", func(t *testing.T) {
		info, err := service.DescribeRate(ctx, "USD", "EUR")
		require.NoError(t, err)
		assert.Equal(t, "1 USD = 0.9200 EUR", info)
	})

	t.Run("To the reference currency", func(t *testing.T) {
		info, err := service.DescribeRate(ctx, "EUR", "USD")
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("1 EUR = %.4f USD", 1/0.92), info)
	})

	t.Run("Cross rate", func(t *testing.T) {
		info, err := service.DescribeRate(ctx, "EUR", "RUB")
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("1 EUR = %.4f RUB", 90.0/0.92), info)
	})

	t.Run("Unknown currency", func(t *testing.T) {
		repo := newStubRates()
		repo.On("GetRate", ctx, "XYZ").Return(nil, entity.ErrRateNotFound)
		service := newConversionService(repo)

		_, err := service.DescribeRate(ctx, "USD", "XYZ")
		var unknown *entity.UnknownCurrencyError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "XYZ", unknown.Code)
	})
}

func TestListCurrencies(t *testing.T) {
	ctx := context.Background()

	t.Run("Popular currencies come first", func(t *testing.T) {
		repo := new(mocks.MockRateRepository)
		repo.On("ListCodes", ctx).
			Return([]string{"AUD", "CHF", "EUR", "RUB", "USD"}, nil)
		service := newConversionService(repo)

		list, err := service.ListCurrencies(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"USD", "RUB", "EUR", "GBP", "JPY", "CNY", "AUD", "CHF"}, list)
	})

	t.Run("Popular currencies listed even when not stored", func(t *testing.T) {
		repo := new(mocks.MockRateRepository)
		repo.On("ListCodes", ctx).Return([]string{}, nil)
		service := newConversionService(repo)

		list, err := service.ListCurrencies(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"USD", "RUB", "EUR", "GBP", "JPY", "CNY"}, list)
	})

	t.Run("Repository error", func(t *testing.T) {
		repo := new(mocks.MockRateRepository)
		repo.On("ListCodes", ctx).Return(nil, errors.New("store unavailable"))
		service := newConversionService(repo)

		_, err := service.ListCurrencies(ctx)
		assert.Error(t, err)
	})
}

func BenchmarkConvert(b *testing.B) {
	ctx := context.Background()
	repo := new(mocks.MockRateRepository)
	updated := time.Now().UTC()
	repo.On("GetRate", ctx, "EUR").
		Return(&entity.RateRecord{Code: "EUR", Rate: 0.92, LastUpdated: updated}, nil)
	repo.On("GetRate", ctx, "RUB").
		Return(&entity.RateRecord{Code: "RUB", Rate: 90.0, LastUpdated: updated}, nil)
	service := newConversionService(repo)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := service.Convert(ctx, "EUR", "RUB", 100); err != nil {
			b.Fatal(err)
		}
	}
}
