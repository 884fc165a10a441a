// Package db internal/infrastructure/db/badger_update_log_repository.go
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dkarpov/currency-exchange-service/internal/domain/entity"
	"github.com/google/uuid"
)

const logPrefix = "log:"

// BadgerUpdateLogRepository implements the append-only update log using
// BadgerDB
type BadgerUpdateLogRepository struct {
	db *badger.DB
}

// NewBadgerUpdateLogRepository creates a new BadgerDB update log repository
func NewBadgerUpdateLogRepository(db *badger.DB) *BadgerUpdateLogRepository {
	return &BadgerUpdateLogRepository{db: db}
}

// logKey orders entries by time: zero-padded nanoseconds sort bytewise in
// chronological order, and the uuid suffix keeps same-instant entries
// distinct.
func logKey(t time.Time) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", logPrefix, t.UnixNano(), uuid.New().String()))
}

// Append durably writes an entry. Entries are never modified or deleted.
func (r *BadgerUpdateLogRepository) Append(ctx context.Context, entry *entity.UpdateLogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal update log entry: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(logKey(entry.UpdateTime), data)
	})

	if err != nil {
		return fmt.Errorf("failed to append update log entry: %w", err)
	}

	return nil
}

// MostRecentSuccess returns the update time of the newest successful entry
func (r *BadgerUpdateLogRepository) MostRecentSuccess(ctx context.Context) (time.Time, error) {
	var found time.Time

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		it := txn.NewIterator(opts)
		defer it.Close()

		// ';' is the byte after ':', so "log;" is an upper bound for every
		// log key and a reverse seek lands on the newest entry
		prefix := []byte(logPrefix)
		for it.Seek([]byte("log;")); it.ValidForPrefix(prefix); it.Next() {
			var entry entity.UpdateLogEntry
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			})
			if err != nil {
				return err
			}

			if entry.Success {
				found = entry.UpdateTime
				return nil
			}
		}

		return entity.ErrNoSuccessfulUpdate
	})

	if err != nil {
		if errors.Is(err, entity.ErrNoSuccessfulUpdate) {
			return time.Time{}, entity.ErrNoSuccessfulUpdate
		}
		return time.Time{}, fmt.Errorf("failed to scan update log: %w", err)
	}

	return found, nil
}
