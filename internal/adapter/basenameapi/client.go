// Package basenameapi provides an HTTP client for the hosted Basenames
// availability API.
package basenameapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"time"

	"github.com/Strob0t/basenames/internal/domain/basename"
	"github.com/Strob0t/basenames/internal/port/nameservice"
	"github.com/Strob0t/basenames/internal/resilience"
)

// maxBodyBytes bounds the availability response read.
const maxBodyBytes = 64 << 10

// ErrMissingAvailability is returned when a 2xx body does not define a
// boolean "available" field.
var ErrMissingAvailability = errors.New("response has no availability field")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("basename API error %d: %s", e.Code, e.Body)
}

// Client talks to the name-service API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *resilience.Breaker
}

var _ nameservice.Client = (*Client)(nil)

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SetBreaker attaches a circuit breaker to all outgoing HTTP calls.
func (c *Client) SetBreaker(b *resilience.Breaker) {
	c.breaker = b
}

type availabilityResponse struct {
	Available *bool           `json:"available"`
	Price     json.RawMessage `json:"price"`
}

// Availability asks the API whether name is free. The returned PriceWei is
// nil when the response price is absent, null or not an integer.
func (c *Client) Availability(ctx context.Context, name basename.CandidateName) (nameservice.Availability, error) {
	data, err := c.doRequest(ctx, "/v1/name/"+url.PathEscape(name.String())+"/availability")
	if err != nil {
		return nameservice.Availability{}, fmt.Errorf("availability %s: %w", name, err)
	}

	var resp availabilityResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nameservice.Availability{}, fmt.Errorf("unmarshal availability: %w", err)
	}
	if resp.Available == nil {
		return nameservice.Availability{}, ErrMissingAvailability
	}

	return nameservice.Availability{
		Available: *resp.Available,
		PriceWei:  parseWei(resp.Price),
	}, nil
}

// parseWei accepts a JSON integer or a numeric string. Anything else,
// including negatives and fractions, yields nil.
func parseWei(raw json.RawMessage) *big.Int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
	}

	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		// Large integers are sometimes serialized in exponent form.
		f, _, err := big.ParseFloat(s, 10, 256, big.ToNearestEven)
		if err != nil || !f.IsInt() {
			return nil
		}
		v, _ = f.Int(nil)
	}
	if v.Sign() < 0 {
		return nil
	}
	return v
}

func (c *Client) doRequest(ctx context.Context, path string) ([]byte, error) {
	var result []byte
	call := func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("http request: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &StatusError{Code: resp.StatusCode, Body: string(data)}
		}

		result = data
		return nil
	}

	if c.breaker != nil {
		if err := c.breaker.ExecuteContext(ctx, call); err != nil {
			return nil, err
		}
		return result, nil
	}

	if err := call(ctx); err != nil {
		return nil, err
	}
	return result, nil
}
