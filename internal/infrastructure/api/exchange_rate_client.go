package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dkarpov/currency-exchange-service/internal/domain/entity"
	"github.com/dkarpov/currency-exchange-service/internal/infrastructure/logger"
	"github.com/sethvargo/go-retry"
)

const (
	defaultBaseURL = "https://api.exchangerate-api.com/v4/latest"

	defaultTimeout    = 10 * time.Second
	defaultRetryDelay = 2 * time.Second
)

// ExchangeRateAPIClient fetches the latest rates from an
// exchangerate-api compatible endpoint
type ExchangeRateAPIClient struct {
	baseURL    string
	httpClient *http.Client
	retries    uint64
	retryDelay time.Duration
	logger     logger.Logger
}

// NewExchangeRateAPIClient creates a new provider client. An empty
// baseURL and a nil httpClient select the production endpoint and a
// client with the default timeout.
func NewExchangeRateAPIClient(baseURL string, httpClient *http.Client, retries uint64, log logger.Logger) *ExchangeRateAPIClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: defaultTimeout,
		}
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ExchangeRateAPIClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		retries:    retries,
		retryDelay: defaultRetryDelay,
		logger:     log,
	}
}

// ratesResponse mirrors the provider payload:
// {"date": "YYYY-MM-DD", "rates": {"CODE": number, ...}}
type ratesResponse struct {
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// FetchRates retrieves the latest rate sheet for base. Every returned
// rate is the number of units of its currency equal to one unit of base;
// the base itself is always present at exactly 1.0.
func (c *ExchangeRateAPIClient) FetchRates(ctx context.Context, base string) (*entity.RateSheet, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	reqURL := fmt.Sprintf("%s/%s", c.baseURL, base)

	c.logger.Debug("Fetching exchange rates", map[string]interface{}{
		"base": base,
		"url":  reqURL,
	})

	var resp *http.Response

	backoff, err := retry.NewConstant(c.retryDelay)
	if err != nil {
		return nil, &entity.FetchError{Kind: entity.FetchNetwork, Err: err}
	}
	backoff = retry.WithMaxRetries(c.retries, backoff)

	if err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err = c.httpClient.Do(req)
		if err != nil {
			// Only transport errors are retried; a bad payload will not
			// get better on a second attempt
			return retry.RetryableError(err)
		}
		return nil
	}); err != nil {
		c.logger.Error("Exchange rate request failed", map[string]interface{}{
			"base":  base,
			"error": err.Error(),
		})
		return nil, &entity.FetchError{Kind: classifyTransportError(err), Err: err}
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Failed to close provider response body", map[string]interface{}{
				"error": closeErr.Error(),
			})
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &entity.FetchError{
			Kind: entity.FetchBadStatus,
			Err:  fmt.Errorf("provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var payload ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &entity.FetchError{Kind: entity.FetchMalformed, Err: err}
	}
	if payload.Date == "" || len(payload.Rates) == 0 {
		return nil, &entity.FetchError{
			Kind: entity.FetchMalformed,
			Err:  errors.New("payload is missing date or rates"),
		}
	}

	asOf, err := time.Parse("2006-01-02", payload.Date)
	if err != nil {
		return nil, &entity.FetchError{
			Kind: entity.FetchMalformed,
			Err:  fmt.Errorf("failed to parse payload date %q: %w", payload.Date, err),
		}
	}

	rates := make(map[string]float64, len(payload.Rates)+1)
	for code, rate := range payload.Rates {
		rates[strings.ToUpper(code)] = rate
	}
	// The base converts to itself 1:1 regardless of what the payload says
	rates[base] = 1.0

	c.logger.Info("Fetched exchange rates", map[string]interface{}{
		"base":  base,
		"as_of": payload.Date,
		"count": len(rates),
	})

	return &entity.RateSheet{
		Base:  base,
		AsOf:  asOf,
		Rates: rates,
	}, nil
}

// classifyTransportError separates timeouts from other network failures
func classifyTransportError(err error) entity.FetchErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return entity.FetchTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return entity.FetchTimeout
	}

	return entity.FetchNetwork
}
