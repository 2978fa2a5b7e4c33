// Package exchangerate fetches latest rates from an exchangerate-api compatible endpoint.
package exchangerate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/rental_fx/internal/apperrors"
	"github.com/SscSPs/rental_fx/internal/core/domain"
	portsrepo "github.com/SscSPs/rental_fx/internal/core/ports/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the open access endpoint of exchangerate-api.
const DefaultBaseURL = "https://open.er-api.com/v6/latest"

const resultSuccess = "success"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 1 << 20

// latestResponse is the subset of the provider payload the service relies on.
type latestResponse struct {
	Result   string                     `json:"result" validate:"required"`
	BaseCode string                     `json:"base_code" validate:"required,len=3"`
	Rates    map[string]decimal.Decimal `json:"rates" validate:"required,min=1"`
}

// Client for the exchange rate provider
type Client struct {
	baseURL  string
	client   *http.Client
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.client = c }
}

// WithClock injects the time source used to stamp FetchedAt.
func WithClock(now func() time.Time) Option {
	return func(cl *Client) { cl.now = now }
}

// NewClient creates a provider client. An empty baseURL falls back to DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		validate: validator.New(),
		logger:   logger.With(slog.String("client", "exchangerate-api")),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ portsrepo.RateProvider = (*Client)(nil)

// FetchLatest retrieves rates quoted against base.
func (c *Client) FetchLatest(ctx context.Context, base domain.CurrencyCode) (*domain.ProviderRates, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, base)
	c.logger.DebugContext(ctx, "Fetching rates", slog.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", apperrors.ErrProviderUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", apperrors.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: provider returned status %d", apperrors.ErrProviderUnavailable, resp.StatusCode)
	}

	var payload latestResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %v", apperrors.ErrProviderUnavailable, err)
	}
	if err := c.validate.Struct(payload); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", apperrors.ErrProviderUnavailable, err)
	}
	if payload.Result != resultSuccess {
		return nil, fmt.Errorf("%w: provider reported result %q", apperrors.ErrProviderUnavailable, payload.Result)
	}
	if !strings.EqualFold(payload.BaseCode, base.String()) {
		return nil, fmt.Errorf("%w: provider returned base %s, expected %s", apperrors.ErrProviderUnavailable, payload.BaseCode, base)
	}

	rates := make(map[domain.CurrencyCode]decimal.Decimal, len(payload.Rates))
	for code, rate := range payload.Rates {
		rates[domain.CurrencyCode(strings.ToUpper(code))] = rate
	}

	c.logger.InfoContext(ctx, "Fetched rates", slog.String("base", base.String()), slog.Int("count", len(rates)))
	return &domain.ProviderRates{
		Base:      base,
		Rates:     rates,
		FetchedAt: c.now(),
	}, nil
}
