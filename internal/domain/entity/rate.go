package entity

import (
	"time"
)

// RateRecord is the latest known rate for a currency relative to the
// reference currency: units of Code equal to one unit of the reference.
// There is exactly one record per currency code; each refresh overwrites
// it in place and no history is kept.
type RateRecord struct {
	Code        string    `json:"code"`
	Rate        float64   `json:"rate"`
	LastUpdated time.Time `json:"last_updated"`
}

// RateSheet is a normalized set of rates returned by a provider for a
// single base currency. Rates follow the same direction as RateRecord:
// every value is the number of units of its currency equal to one unit
// of Base. The base itself is always present at exactly 1.0.
type RateSheet struct {
	Base  string             `json:"base"`
	AsOf  time.Time          `json:"as_of"`
	Rates map[string]float64 `json:"rates"`
}
