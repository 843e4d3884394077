package station_test

import (
	"encoding/json"
	"testing"

	"github.com/matthewwall/weewx-l7/internal/station"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryUnmarshalJSON(t *testing.T) {
	var e station.Entry
	require.NoError(t, json.Unmarshal([]byte(`["Hour","0.0","inch","43"]`), &e))
	assert.Equal(t, station.Entry{Label: "Hour", Value: "0.0", Unit: "inch", Extra: "43"}, e)

	e = station.Entry{}
	require.NoError(t, json.Unmarshal([]byte(`["Direction","123",""]`), &e))
	assert.Equal(t, station.Entry{Label: "Direction", Value: "123"}, e)

	// Short tuples decode without error and are skipped in translation.
	e = station.Entry{}
	require.NoError(t, json.Unmarshal([]byte(`["Temperature"]`), &e))
	assert.Equal(t, station.Entry{Label: "Temperature"}, e)

	err := json.Unmarshal([]byte(`{"label":"Temperature"}`), &e)
	assert.Error(t, err)
}

func TestUnboundConsoleDocument(t *testing.T) {
	// An unbound console reports only Indoor and Pressure.
	body := `{"sensor":[
	  {"title":"Indoor","list":[["Temperature","69.3","F"],["Humidity","38","%"]]},
	  {"title":"Pressure","list":[["Absolute","30.04","inhg"],["Relative","29.91","inhg"]]}
	]}`

	doc := &station.Document{}
	require.NoError(t, json.Unmarshal([]byte(body), doc))

	assert.Len(t, doc.Sensor, 2)
	assert.Nil(t, doc.Battery)
	assert.Nil(t, doc.Group("Rainfall"))

	indoor := doc.Group("Indoor")
	require.NotNil(t, indoor)
	assert.Equal(t, "69.3", indoor.List[0].Value)
}
