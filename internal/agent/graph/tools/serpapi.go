package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/birthdai/concierge/internal/agent/model"
	errx "github.com/birthdai/concierge/internal/core/error"
	logx "github.com/birthdai/concierge/pkg/logger"
	"github.com/cenkalti/backoff/v4"
)

// ErrAPIKeyMissing is returned when no SerpApi key is configured. The tools
// refuse to issue requests rather than sending an unauthenticated call.
var ErrAPIKeyMissing = errors.New("SERPAPI_API_KEY is not set; add it to your .env file")

// SerpClient issues requests against the SerpApi search endpoint with a
// bounded exponential retry, mirroring the upstream rate-limit guidance.
type SerpClient struct {
	cfg  model.SerpAPIConfig
	http *http.Client
}

func NewSerpClient(cfg model.SerpAPIConfig) *SerpClient {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SerpClient{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
}

// searchParams returns the base query values shared by every engine call.
// The api_key is included, so callers must check RequireKey first.
func (c *SerpClient) searchParams(engine string) url.Values {
	v := url.Values{}
	v.Set("engine", engine)
	v.Set("api_key", c.cfg.APIKey)
	return v
}

func (c *SerpClient) RequireKey() error {
	if c.cfg.APIKey == "" {
		return ErrAPIKeyMissing
	}
	return nil
}

// GetJSON performs a GET against rawURL (the configured endpoint when empty)
// with the given query values, retrying transient failures.
func (c *SerpClient) GetJSON(ctx context.Context, rawURL string, params url.Values) (map[string]any, error) {
	target := rawURL
	if target == "" {
		target = c.cfg.Endpoint
	}
	if params != nil {
		u, err := url.Parse(target)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		q := u.Query()
		for k, vals := range params {
			for _, v := range vals {
				q.Set(k, v)
			}
		}
		u.RawQuery = q.Encode()
		target = u.String()
	}

	attempts := c.cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}

	var payload map[string]any
	var lastStatus int

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		lastStatus = resp.StatusCode
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("serpapi status %d", resp.StatusCode)
		}
		if resp.StatusCode >= http.StatusBadRequest {
			// client errors will not succeed on retry
			return backoff.Permanent(fmt.Errorf("serpapi status %d", resp.StatusCode))
		}

		var m map[string]any
		if err := json.Unmarshal(body, &m); err != nil {
			return backoff.Permanent(fmt.Errorf("decode serpapi response: %w", err))
		}
		payload = m
		return nil
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = time.Second
	eb.MaxInterval = 6 * time.Second

	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(attempts-1)), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		logx.Error().Err(err).Int("status", lastStatus).Msg("serpapi request failed after retries")
		return nil, errx.WrapSerpAPI(err, lastStatus)
	}
	return payload, nil
}
