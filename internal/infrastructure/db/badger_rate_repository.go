package db

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dkarpov/currency-exchange-service/internal/domain/entity"
)

const ratePrefix = "rate:"

// BadgerRateRepository implements the rate repository interface using BadgerDB
type BadgerRateRepository struct {
	db *badger.DB
}

// NewBadgerRateRepository creates a new BadgerDB rate repository
func NewBadgerRateRepository(db *badger.DB) *BadgerRateRepository {
	return &BadgerRateRepository{db: db}
}

func rateKey(code string) []byte {
	return []byte(ratePrefix + code)
}

// GetRate retrieves the latest record for a currency code
func (r *BadgerRateRepository) GetRate(ctx context.Context, code string) (*entity.RateRecord, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	var record entity.RateRecord

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(rateKey(code))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})

	if err == badger.ErrKeyNotFound {
		return nil, entity.ErrRateNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to retrieve rate for %s: %w", code, err)
	}

	return &record, nil
}

// Upsert inserts or overwrites the record for a currency code. A single
// Set is atomic, so readers never observe a partial record.
func (r *BadgerRateRepository) Upsert(ctx context.Context, code string, rate float64, updated time.Time) error {
	code = strings.ToUpper(strings.TrimSpace(code))

	record := entity.RateRecord{
		Code:        code,
		Rate:        rate,
		LastUpdated: updated,
	}

	data, err := json.Marshal(&record)
	if err != nil {
		return fmt.Errorf("failed to marshal rate record: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(rateKey(code), data)
	})

	if err != nil {
		return fmt.Errorf("failed to store rate for %s: %w", code, err)
	}

	return nil
}

// ListCodes returns all known currency codes in lexical order
func (r *BadgerRateRepository) ListCodes(ctx context.Context) ([]string, error) {
	var codes []string

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(ratePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			codes = append(codes, strings.TrimPrefix(key, ratePrefix))
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list currency codes: %w", err)
	}

	sort.Strings(codes)
	return codes, nil
}
