package facades

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultAwesomeAPIURL returns the ask quotes of USD, EUR and BTC in BRL.
const DefaultAwesomeAPIURL = "https://economia.awesomeapi.com.br/json/all/USD-BRL,EUR-BRL,BTC-BRL"

var (
	// ErrUnexpectedStatus is returned for non-2xx responses.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrMalformedResponse is returned when the body is not the expected quote document.
	ErrMalformedResponse = errors.New("malformed response")
)

// AwesomeAPIFacade fetches quotes from the AwesomeAPI economy endpoint.
// The document has one object per currency code, each with an "ask" field
// holding a numeric string.
type AwesomeAPIFacade struct {
	url    string
	codes  []string
	client *http.Client
}

// NewAwesomeAPIFacade creates a facade for url fetching the given codes.
func NewAwesomeAPIFacade(url string, codes []string, timeout time.Duration) *AwesomeAPIFacade {
	if url == "" {
		url = DefaultAwesomeAPIURL
	}
	return &AwesomeAPIFacade{
		url:   url,
		codes: codes,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Source names the upstream provider.
func (f *AwesomeAPIFacade) Source() string {
	return "awesomeapi"
}

// FetchRates returns the ask price of every configured code.
// Any missing or non-numeric quote fails the whole fetch.
func (f *AwesomeAPIFacade) FetchRates(ctx context.Context) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building http request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid json", ErrMalformedResponse)
	}

	rates := make(map[string]float64, len(f.codes))
	for _, code := range f.codes {
		ask := gjson.GetBytes(body, code+".ask")
		if !ask.Exists() {
			return nil, fmt.Errorf("%w: missing %s.ask", ErrMalformedResponse, code)
		}
		v, err := strconv.ParseFloat(ask.String(), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad %s.ask %q", ErrMalformedResponse, code, ask.String())
		}
		rates[code] = v
	}

	return rates, nil
}
