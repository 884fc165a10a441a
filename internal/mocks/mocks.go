// internal/mocks/mocks.go
package mocks

import (
	"context"
	"time"

	"github.com/dkarpov/currency-exchange-service/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockRateRepository mocks the RateRepository interface
type MockRateRepository struct {
	mock.Mock
}

func (m *MockRateRepository) GetRate(ctx context.Context, code string) (*entity.RateRecord, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RateRecord), args.Error(1)
}

func (m *MockRateRepository) Upsert(ctx context.Context, code string, rate float64, updated time.Time) error {
	args := m.Called(ctx, code, rate, updated)
	return args.Error(0)
}

func (m *MockRateRepository) ListCodes(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockUpdateLogRepository mocks the UpdateLogRepository interface
type MockUpdateLogRepository struct {
	mock.Mock
}

func (m *MockUpdateLogRepository) Append(ctx context.Context, entry *entity.UpdateLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockUpdateLogRepository) MostRecentSuccess(ctx context.Context) (time.Time, error) {
	args := m.Called(ctx)
	return args.Get(0).(time.Time), args.Error(1)
}

// MockRateProvider mocks the external rate provider interface
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) FetchRates(ctx context.Context, base string) (*entity.RateSheet, error) {
	args := m.Called(ctx, base)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RateSheet), args.Error(1)
}
