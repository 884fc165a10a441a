package entity

import (
	"time"
)

// UpdateLogEntry records a single rate refresh attempt. Entries are
// append-only and immutable once written; ordering by UpdateTime
// determines the most recent successful refresh.
type UpdateLogEntry struct {
	UpdateTime time.Time `json:"update_time"`
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
}
