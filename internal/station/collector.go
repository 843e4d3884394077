package station

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matthewwall/weewx-l7/internal/errors"
	"github.com/matthewwall/weewx-l7/internal/logger"
)

const statusPath = "/client?command=record"

// CollectorConfig holds the settings for fetching from one console.
type CollectorConfig struct {
	Addr      string
	MaxTries  int
	RetryWait time.Duration
	Timeout   time.Duration
}

// Collector fetches the status document from a single station console
// over HTTP with a bounded retry policy.
type Collector struct {
	url       string
	maxTries  int
	retryWait time.Duration
	client    *http.Client

	// sleep is swapped out in tests to observe backoff delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewCollector creates a collector for the console at cfg.Addr.
func NewCollector(cfg CollectorConfig) (*Collector, error) {
	errFactory := errors.New()

	if cfg.Addr == "" {
		return nil, errFactory.New(ErrInvalidAddr)
	}
	if cfg.MaxTries <= 0 {
		cfg.MaxTries = 1
	}

	return &Collector{
		url:       fmt.Sprintf("http://%s%s", cfg.Addr, statusPath),
		maxTries:  cfg.MaxTries,
		retryWait: cfg.RetryWait,
		client:    &http.Client{Timeout: cfg.Timeout},
		sleep:     sleepContext,
	}, nil
}

// URL returns the request URL the collector polls.
func (c *Collector) URL() string {
	return c.url
}

// Fetch retrieves and parses the station's status document. Transport
// failures and malformed bodies are retried up to MaxTries with a fixed
// RetryWait between attempts; no delay precedes the first attempt. When
// every attempt fails the last error is returned wrapped as
// ErrFetchExhausted, which callers treat as "no data this cycle".
func (c *Collector) Fetch(ctx context.Context) (*Document, error) {
	errFactory := errors.New()

	var lastErr error
	for tries := 1; tries <= c.maxTries; tries++ {
		if tries > 1 {
			if err := c.sleep(ctx, c.retryWait); err != nil {
				return nil, errFactory.Wrap(ErrFetchFailed, err)
			}
		}

		doc, err := c.fetchOnce(ctx)
		if err == nil {
			logger.Debug().Int("tries", tries).Str("url", c.url).Msg("fetched station data")
			return doc, nil
		}

		lastErr = err
		logger.Error().
			Err(err).
			Int("try", tries).
			Int("max_tries", c.maxTries).
			Msg("failed to fetch station data")
	}

	return nil, errFactory.Wrap(ErrFetchExhausted, lastErr)
}

func (c *Collector) fetchOnce(ctx context.Context) (*Document, error) {
	errFactory := errors.New()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, errFactory.Wrap(ErrFetchFailed, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errFactory.Wrap(ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errFactory.WithData(ErrBadStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errFactory.Wrap(ErrFetchFailed, err)
	}

	doc := &Document{}
	if err := json.Unmarshal(body, doc); err != nil {
		return nil, errFactory.Wrap(ErrParseFailed, err)
	}

	return doc, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
