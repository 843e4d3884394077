package telemetry

import (
	"context"

	"github.com/matthewwall/weewx-l7/internal/station"
)

// Archiver persists normalized records. The standalone daemon has no
// weewx host to archive for it, so this fills that role locally.
type Archiver interface {
	Record(ctx context.Context, rec *station.Record) error
	Close() error
}
