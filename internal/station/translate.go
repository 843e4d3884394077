package station

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/matthewwall/weewx-l7/internal/config"
	"github.com/matthewwall/weewx-l7/internal/logger"
)

// Field names the polling loop cares about by name.
const (
	FieldRain      = "rain"
	FieldRainTotal = "rain_total"
	FieldBattery   = "battery"
)

// batteryOK is the exact status string the console reports when every
// bound sensor battery is healthy. The console provides no per-sensor
// battery detail, only this all-or-nothing sentinel.
const batteryOK = "All battery are ok"

// Record is the normalized, host-facing measurement mapping produced
// once per polling cycle. Values is sparse: only fields the console
// reported (and that parsed cleanly) are present.
type Record struct {
	DateTime time.Time
	Units    config.UnitSystem
	Values   map[string]float64
}

// MarshalJSON renders the record the way the host sees it: a flat
// object with dateTime (unix seconds), usUnits, and one member per
// measurement.
func (r Record) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(r.Values)+2)
	flat["dateTime"] = r.DateTime.Unix()
	flat["usUnits"] = r.Units.String()
	for name, value := range r.Values {
		flat[name] = value
	}

	return json.Marshal(flat)
}

type conversion int

const (
	asFloat conversion = iota
	asInt
)

type mappedField struct {
	name string
	conv conversion
}

func (f mappedField) parse(s string) (float64, error) {
	if f.conv == asInt {
		n, err := strconv.Atoi(s)
		return float64(n), err
	}

	return strconv.ParseFloat(s, 64)
}

// fieldMap is the fixed mapping from the console's group titles and
// entry labels to record field names. Groups and labels not listed here
// are ignored, so firmware that reports extra readings keeps working.
var fieldMap = map[string]map[string]mappedField{
	"Indoor": {
		"Temperature": {"inTemp", asFloat},
		"Humidity":    {"inHumidity", asInt},
	},
	"Outdoor": {
		"Temperature": {"outTemp", asFloat},
		"Humidity":    {"outHumidity", asInt},
	},
	"Pressure": {
		"Absolute": {"pressure", asFloat},
	},
	"Wind Speed": {
		"Wind":                       {"windSpeed", asFloat},
		"Gust":                       {"windGust", asFloat},
		"Direction Average 2 Minute": {"windDir", asFloat},
	},
	"Rainfall": {
		"Rate":  {"rain_rate", asFloat},
		"Hour":  {"rain_hour", asFloat},
		"Day":   {"rain_day", asFloat},
		"Week":  {"rain_week", asFloat},
		"Month": {"rain_month", asFloat},
		"Year":  {"rain_year", asFloat},
		"Total": {"rain_total", asFloat},
	},
	"Solar": {
		"Light": {"luminosity", asFloat},
		"UVI":   {"UV", asFloat},
	},
}

// Translate converts a fetched status document into a Record stamped
// with now and the configured unit system. A nil doc (fetch failed this
// cycle) yields a record with only the timestamp and unit tag.
//
// Rainfall is reported by the console as a cumulative total; the
// per-cycle amount is the difference against the previous cycle's total.
// With lastRainTotal of 10.65 and a reported Total of 16.37 the record
// gains rain = 5.72. When lastRainTotal is nil the rain field is left
// out entirely rather than computed against zero, so the first cycle
// after startup (or after a missed cycle) never reports a false spike.
//
// A reading whose value fails to parse drops only that field; the rest
// of the record still populates.
func Translate(doc *Document, lastRainTotal *float64, now time.Time, units config.UnitSystem) Record {
	rec := Record{
		DateTime: now,
		Units:    units,
		Values:   make(map[string]float64),
	}
	if doc == nil {
		return rec
	}

	for _, group := range doc.Sensor {
		labels, ok := fieldMap[group.Title]
		if !ok {
			continue
		}
		for _, entry := range group.List {
			field, ok := labels[entry.Label]
			if !ok {
				continue
			}
			value, err := field.parse(entry.Value)
			if err != nil {
				logger.Debug().
					Str("group", group.Title).
					Str("label", entry.Label).
					Str("value", entry.Value).
					Msg("skipping unparseable reading")
				continue
			}
			rec.Values[field.name] = value
		}
	}

	if total, ok := rec.Values[FieldRainTotal]; ok && lastRainTotal != nil {
		rec.Values[FieldRain] = total - *lastRainTotal
	}

	if doc.Battery != nil && len(doc.Battery.List) > 0 && doc.Battery.List[0] == batteryOK {
		rec.Values[FieldBattery] = 0
	}

	return rec
}
