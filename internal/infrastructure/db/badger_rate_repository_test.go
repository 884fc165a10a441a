package db

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dkarpov/currency-exchange-service/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB opens a throwaway BadgerDB in a temp dir
func openTestDB(t *testing.T) *badger.DB {
	t.Helper()

	opts := badger.DefaultOptions(t.TempDir())
	opts.Logger = nil
	opts.SyncWrites = false

	badgerDB, err := badger.Open(opts)
	require.NoError(t, err)

	t.Cleanup(func() {
		badgerDB.Close()
	})

	return badgerDB
}

func TestBadgerRateRepository(t *testing.T) {
	repo := NewBadgerRateRepository(openTestDB(t))
	ctx := context.Background()
	updated := time.Date(2023, 4, 10, 0, 0, 0, 0, time.UTC)

	t.Run("GetRate on empty store", func(t *testing.T) {
		record, err := repo.GetRate(ctx, "EUR")
		assert.Nil(t, record)
		assert.ErrorIs(t, err, entity.ErrRateNotFound)
	})

	t.Run("Upsert and case-insensitive lookup", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, "eur", 0.92, updated))

		record, err := repo.GetRate(ctx, "EuR")
		require.NoError(t, err)
		assert.Equal(t, "EUR", record.Code)
		assert.Equal(t, 0.92, record.Rate)
		assert.Equal(t, updated, record.LastUpdated)
	})

	t.Run("Upsert overwrites the prior value", func(t *testing.T) {
		later := updated.AddDate(0, 0, 1)
		require.NoError(t, repo.Upsert(ctx, "EUR", 0.95, later))

		record, err := repo.GetRate(ctx, "EUR")
		require.NoError(t, err)
		assert.Equal(t, 0.95, record.Rate)
		assert.Equal(t, later, record.LastUpdated)
	})

	t.Run("ListCodes", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, "USD", 1.0, updated))
		require.NoError(t, repo.Upsert(ctx, "RUB", 90.0, updated))

		codes, err := repo.ListCodes(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"EUR", "RUB", "USD"}, codes)
	})
}
