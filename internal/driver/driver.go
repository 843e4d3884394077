package driver

import (
	"context"
	"strings"
	"time"

	"github.com/matthewwall/weewx-l7/internal/config"
	"github.com/matthewwall/weewx-l7/internal/logger"
	"github.com/matthewwall/weewx-l7/internal/station"
)

const defaultInterval = 10 * time.Second

// Fetcher abstracts the station collector so tests can inject a fake.
type Fetcher interface {
	Fetch(ctx context.Context) (*station.Document, error)
}

// State is the one piece of data threaded across polling cycles: the
// cumulative rain total from the last cycle that reported one. Nil
// means unknown (startup, or no rain data yet).
type State struct {
	LastRainTotal *float64
}

// Config holds the polling loop settings.
type Config struct {
	Interval time.Duration
	Units    config.UnitSystem

	// SensorMap optionally renames record fields for the host,
	// applied after translation.
	SensorMap map[string]string
}

// Driver runs the poll-fetch-translate loop against one console and
// yields normalized records.
type Driver struct {
	fetcher Fetcher
	cfg     Config
	now     func() time.Time
}

func New(cfg Config, fetcher Fetcher) *Driver {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}

	return &Driver{
		fetcher: fetcher,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Records returns a lazy, infinite sequence of records, one per polling
// cycle. The channel is unbuffered: the loop does not run ahead of the
// consumer. It is closed when ctx is cancelled and cannot be restarted.
// A failed fetch yields a record carrying only the timestamp and unit
// tag; no error ever stops the loop.
func (d *Driver) Records(ctx context.Context) <-chan station.Record {
	out := make(chan station.Record)

	go func() {
		defer close(out)
		var st State
		for {
			var rec station.Record
			rec, st = d.Cycle(ctx, st)

			select {
			case out <- rec:
			case <-ctx.Done():
				return
			}

			timer := time.NewTimer(d.cfg.Interval)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()

	return out
}

// Cycle runs a single fetch/translate pass and returns the record along
// with the state to carry into the next cycle. The record is built in
// full before it is returned; a consumer never sees a partial one.
func (d *Driver) Cycle(ctx context.Context, st State) (station.Record, State) {
	doc, err := d.fetcher.Fetch(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("no data this cycle")
		doc = nil
	}

	rec := station.Translate(doc, st.LastRainTotal, d.now(), d.cfg.Units)

	if total, ok := rec.Values[station.FieldRainTotal]; ok {
		t := total
		st.LastRainTotal = &t
	}

	d.applySensorMap(rec)

	logger.Debug().
		Time("date_time", rec.DateTime).
		Str("units", rec.Units.String()).
		Interface("values", rec.Values).
		Msg("record")

	return rec, st
}

// applySensorMap renames record fields per the host-supplied map. Keys
// arrive lowercased from the config layer, so matching is
// case-insensitive; the replacement name is used as given.
func (d *Driver) applySensorMap(rec station.Record) {
	for from, to := range d.cfg.SensorMap {
		for name, v := range rec.Values {
			if strings.EqualFold(name, from) && name != to {
				delete(rec.Values, name)
				rec.Values[to] = v
				break
			}
		}
	}
}
