package handler

import (
	"encoding/json"
	"strings"
)

// ConvertRequest represents the body of POST /api/convert. Amount is kept
// raw so decoding never rejects it; clients may send it as either a
// number or a string and parseAmount coerces it afterwards.
type ConvertRequest struct {
	FromCurrency string          `json:"from_currency"`
	ToCurrency   string          `json:"to_currency"`
	Amount       json.RawMessage `json:"amount"`
}

// parseAmount coerces a raw amount value into a float64. Numbers and
// numeric strings are accepted, anything else is an error.
func parseAmount(raw json.RawMessage) (float64, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		// json.Number rejects non-numeric strings at decode time, so
		// fall back to a plain string and let Float64 report the error
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return 0, err
		}
		n = json.Number(strings.TrimSpace(s))
	}

	return n.Float64()
}

// ConvertResponse represents the response for the convert endpoint
type ConvertResponse struct {
	Success      bool    `json:"success"`
	Result       float64 `json:"result"`
	FromCurrency string  `json:"from_currency"`
	ToCurrency   string  `json:"to_currency"`
	Amount       float64 `json:"amount"`
	RateInfo     string  `json:"rate_info,omitempty"`
}

// UpdateRatesResponse represents the response for the update rates endpoint
type UpdateRatesResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	LastUpdate string `json:"last_update,omitempty"`
}

// LastUpdateResponse represents the response for the last update endpoint
type LastUpdateResponse struct {
	Success    bool   `json:"success"`
	LastUpdate string `json:"last_update,omitempty"`
	Message    string `json:"message,omitempty"`
}

// CurrenciesResponse represents the response for the currencies endpoint
type CurrenciesResponse struct {
	Currencies []string `json:"currencies"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Success     bool   `json:"success"`
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}
