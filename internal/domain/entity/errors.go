package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAmount is returned when a conversion amount is not a
	// positive finite number.
	ErrInvalidAmount = errors.New("amount must be a positive finite number")

	// ErrZeroRate is returned when a stored rate of exactly zero would
	// make the conversion divide by zero.
	ErrZeroRate = errors.New("stored rate is zero")

	// ErrRateNotFound is returned by the rate store when no record exists
	// for a currency code.
	ErrRateNotFound = errors.New("rate not found")

	// ErrNoSuccessfulUpdate is returned when the update log contains no
	// successful refresh.
	ErrNoSuccessfulUpdate = errors.New("no successful update recorded")
)

// UnknownCurrencyError names the currency code that has no stored rate
// and is not the reference currency.
type UnknownCurrencyError struct {
	Code string
}

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("currency %s not found", e.Code)
}

// FetchErrorKind classifies provider fetch failures.
type FetchErrorKind string

const (
	FetchTimeout   FetchErrorKind = "timeout"
	FetchNetwork   FetchErrorKind = "network"
	FetchBadStatus FetchErrorKind = "status"
	FetchMalformed FetchErrorKind = "malformed"
)

// FetchError is returned when the external rate provider cannot deliver
// a usable rate sheet.
type FetchError struct {
	Kind FetchErrorKind
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("rate fetch failed (%s)", e.Kind)
	}
	return fmt.Sprintf("rate fetch failed (%s): %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
