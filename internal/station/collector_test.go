package station

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matthewwall/weewx-l7/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCollector(t *testing.T, handler http.HandlerFunc) (*Collector, *int) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewCollector(CollectorConfig{
		Addr:      strings.TrimPrefix(srv.URL, "http://"),
		MaxTries:  3,
		RetryWait: 10 * time.Second,
		Timeout:   time.Second,
	})
	require.NoError(t, err)

	sleeps := 0
	c.sleep = func(_ context.Context, d time.Duration) error {
		assert.Equal(t, 10*time.Second, d)
		sleeps++
		return nil
	}

	return c, &sleeps
}

func TestCollectorURL(t *testing.T) {
	c, err := NewCollector(CollectorConfig{Addr: "192.168.5.1"})
	require.NoError(t, err)
	assert.Equal(t, "http://192.168.5.1/client?command=record", c.URL())

	_, err = NewCollector(CollectorConfig{})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrInvalidAddr))
}

func TestFetchFirstTrySucceeds(t *testing.T) {
	requests := 0
	c, sleeps := newTestCollector(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "/client", r.URL.Path)
		assert.Equal(t, "record", r.URL.Query().Get("command"))
		w.Write([]byte(`{"sensor":[{"title":"Indoor","list":[["Temperature","69.3","F"]]}]}`))
	})

	doc, err := c.Fetch(context.Background())
	require.NoError(t, err)
	require.NotNil(t, doc.Group("Indoor"))
	assert.Equal(t, 1, requests)
	assert.Equal(t, 0, *sleeps, "no backoff delay when the first attempt succeeds")
}

func TestFetchRetriesThenSucceeds(t *testing.T) {
	requests := 0
	c, sleeps := newTestCollector(t, func(w http.ResponseWriter, _ *http.Request) {
		requests++
		if requests <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"sensor":[]}`))
	})

	doc, err := c.Fetch(context.Background())
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, 3, requests)
	assert.Equal(t, 2, *sleeps)
}

func TestFetchExhaustsRetries(t *testing.T) {
	requests := 0
	c, sleeps := newTestCollector(t, func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	doc, err := c.Fetch(context.Background())
	assert.Nil(t, doc)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrFetchExhausted))
	assert.Equal(t, 3, requests)
	assert.Equal(t, 2, *sleeps, "delays only between attempts")
}

func TestFetchMalformedBodyIsRetried(t *testing.T) {
	requests := 0
	c, _ := newTestCollector(t, func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.Write([]byte(`{"sensor":[`))
	})

	_, err := c.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrFetchExhausted))
	assert.Equal(t, 3, requests)
}

func TestFetchHonorsCancellationDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c, err := NewCollector(CollectorConfig{
		Addr:      strings.TrimPrefix(srv.URL, "http://"),
		MaxTries:  3,
		RetryWait: time.Minute,
		Timeout:   time.Second,
	})
	require.NoError(t, err)

	cancel()
	_, err = c.Fetch(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
