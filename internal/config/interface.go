package config

// LogLevel represents valid logging levels
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// IsValid returns whether the log level is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
		return true
	default:
		return false
	}
}

// String implements the Stringer interface
func (l LogLevel) String() string {
	return string(l)
}

// UnitSystem represents the unit system declared on emitted records.
// The console reports US customary units natively; the metric tag is
// for hosts that configure the console to report metric values.
type UnitSystem string

const (
	UnitsUS     UnitSystem = "us"
	UnitsMetric UnitSystem = "metric"
)

// IsValid returns whether the unit system is valid
func (u UnitSystem) IsValid() bool {
	switch u {
	case UnitsUS, UnitsMetric:
		return true
	default:
		return false
	}
}

// String implements the Stringer interface
func (u UnitSystem) String() string {
	return string(u)
}
