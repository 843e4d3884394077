package station

import "github.com/matthewwall/weewx-l7/internal/errors"

const (
	// Collector errors
	ErrFetchFailed    = errors.ErrorCode("station_fetch_failed")
	ErrFetchExhausted = errors.ErrorCode("station_fetch_retries_exhausted")
	ErrBadStatus      = errors.ErrorCode("station_unexpected_status")
	ErrParseFailed    = errors.ErrorCode("station_parse_failed")

	// Configuration errors
	ErrInvalidAddr = errors.ErrorCode("station_invalid_address")
)
