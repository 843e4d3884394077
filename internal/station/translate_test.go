package station_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/matthewwall/weewx-l7/internal/config"
	"github.com/matthewwall/weewx-l7/internal/station"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// boundClusterJSON is the console output with an outdoor sensor cluster
// bound, including readings outside the fixed field mapping that must
// be ignored.
const boundClusterJSON = `{"sensor":[{
  "title":"Indoor",
    "list":[
      ["Temperature","57.4","F"],
      ["Humidity","81","%"]
    ]},{
  "title":"Outdoor",
    "list":[
      ["Temperature","54.7","F"],
      ["Humidity","94","%"]
    ]},{
  "title":"Pressure",
    "list":[
      ["Absolute","29.76","inhg"],
      ["Relative","29.84","inhg"]
    ]},{
  "title":"Wind Speed",
    "list":[
      ["Max Daily Gust","5.1","mph"],
      ["Wind","1.1","mph"],
      ["Gust","1.6","mph"],
      ["Direction","123",""],
      ["Wind Average 2 Minute","0.4","mph"],
      ["Direction Average 2 Minute","280",""],
      ["Wind Average 10 Minute","1.3","mph"],
      ["Direction Average 10 Minute","134",""]
    ]},{
  "title":"Rainfall",
    "list":[
      ["Rate","0.07","inch/hr"],
      ["Total","0.56","inch","48"]
    ],
    "range":"Range: 0inch to 393.7inch."},{
  "title":"Solar",
    "list":[
      ["Light","0.0","w/"],
      ["UVI","0.0",""]
    ]}
  ],
  "battery":{
    "title":"Battery",
    "list":[
      "All battery are ok"
    ]
  }
}`

func parseDocument(t *testing.T, body string) *station.Document {
	t.Helper()
	doc := &station.Document{}
	require.NoError(t, json.Unmarshal([]byte(body), doc))
	return doc
}

func TestTranslateBoundCluster(t *testing.T) {
	doc := parseDocument(t, boundClusterJSON)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	rec := station.Translate(doc, nil, now, config.UnitsUS)

	assert.Equal(t, now, rec.DateTime)
	assert.Equal(t, config.UnitsUS, rec.Units)

	expected := map[string]float64{
		"inTemp":      57.4,
		"inHumidity":  81,
		"outTemp":     54.7,
		"outHumidity": 94,
		"pressure":    29.76,
		"windSpeed":   1.1,
		"windGust":    1.6,
		"windDir":     280.0,
		"rain_rate":   0.07,
		"rain_total":  0.56,
		"luminosity":  0.0,
		"UV":          0.0,
		"battery":     0,
	}
	assert.Equal(t, expected, rec.Values)
	assert.NotContains(t, rec.Values, "rain", "no rain delta without a prior total")
}

func TestTranslateNilDocument(t *testing.T) {
	now := time.Now()
	last := 10.65

	rec := station.Translate(nil, &last, now, config.UnitsMetric)

	assert.Equal(t, now, rec.DateTime)
	assert.Equal(t, config.UnitsMetric, rec.Units)
	assert.Empty(t, rec.Values)
}

func TestTranslateRainDelta(t *testing.T) {
	doc := &station.Document{
		Sensor: []station.Group{{
			Title: "Rainfall",
			List:  []station.Entry{{Label: "Total", Value: "16.37", Unit: "inch"}},
		}},
	}

	last := 10.65
	rec := station.Translate(doc, &last, time.Now(), config.UnitsUS)
	require.Contains(t, rec.Values, "rain")
	assert.InDelta(t, 5.72, rec.Values["rain"], 1e-9)
	assert.InDelta(t, 16.37, rec.Values["rain_total"], 1e-9)

	rec = station.Translate(doc, nil, time.Now(), config.UnitsUS)
	assert.NotContains(t, rec.Values, "rain")
	assert.Contains(t, rec.Values, "rain_total")
}

func TestTranslateBattery(t *testing.T) {
	doc := func(status ...string) *station.Document {
		d := &station.Document{}
		if len(status) > 0 {
			d.Battery = &station.Battery{Title: "Battery", List: status}
		}
		return d
	}

	rec := station.Translate(doc("All battery are ok"), nil, time.Now(), config.UnitsUS)
	require.Contains(t, rec.Values, "battery")
	assert.Equal(t, 0.0, rec.Values["battery"])

	rec = station.Translate(doc("Outdoor battery is low"), nil, time.Now(), config.UnitsUS)
	assert.NotContains(t, rec.Values, "battery")

	rec = station.Translate(doc(), nil, time.Now(), config.UnitsUS)
	assert.NotContains(t, rec.Values, "battery")
}

func TestTranslateDropsUnparseableField(t *testing.T) {
	doc := &station.Document{
		Sensor: []station.Group{{
			Title: "Indoor",
			List: []station.Entry{
				{Label: "Temperature", Value: "--.-", Unit: "F"},
				{Label: "Humidity", Value: "38", Unit: "%"},
			},
		}},
	}

	rec := station.Translate(doc, nil, time.Now(), config.UnitsUS)
	assert.NotContains(t, rec.Values, "inTemp")
	assert.Equal(t, 38.0, rec.Values["inHumidity"])
}

func TestTranslateIgnoresUnknownGroupsAndLabels(t *testing.T) {
	doc := &station.Document{
		Sensor: []station.Group{
			{
				Title: "Soil Moisture",
				List:  []station.Entry{{Label: "Channel 1", Value: "21", Unit: "%"}},
			},
			{
				Title: "Pressure",
				List: []station.Entry{
					{Label: "Relative", Value: "29.84", Unit: "inhg"},
					{Label: "Absolute", Value: "29.76", Unit: "inhg"},
				},
			},
		},
	}

	rec := station.Translate(doc, nil, time.Now(), config.UnitsUS)
	assert.Equal(t, map[string]float64{"pressure": 29.76}, rec.Values)
}

func TestTranslateIdempotent(t *testing.T) {
	doc := parseDocument(t, boundClusterJSON)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	last := 0.25

	first := station.Translate(doc, &last, now, config.UnitsUS)
	second := station.Translate(doc, &last, now, config.UnitsUS)

	assert.Equal(t, first, second)
}

func TestRecordMarshalJSON(t *testing.T) {
	rec := station.Record{
		DateTime: time.Unix(1717243200, 0),
		Units:    config.UnitsUS,
		Values:   map[string]float64{"outTemp": 54.7},
	}

	out, err := json.Marshal(rec)
	require.NoError(t, err)

	flat := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(out, &flat))
	assert.Equal(t, float64(1717243200), flat["dateTime"])
	assert.Equal(t, "us", flat["usUnits"])
	assert.Equal(t, 54.7, flat["outTemp"])
}
