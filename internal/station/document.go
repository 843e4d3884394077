package station

import (
	"encoding/json"
)

// Document mirrors the JSON status document served by the L7 console at
// /client?command=record. Which sensor groups appear depends on whether
// the console is bound to an outdoor sensor cluster; an unbound console
// reports only Indoor and Pressure. Absent groups are not an error.
//
// Bound-cluster output looks like:
//
//	{"sensor":[
//	  {"title":"Indoor","list":[["Temperature","68.9","F"],["Humidity","38","%"]]},
//	  {"title":"Outdoor","list":[["Temperature","61.7","F"],["Humidity","29","%"]]},
//	  {"title":"Pressure","list":[["Absolute","26.76","inhg"],["Relative","29.84","inhg"]]},
//	  {"title":"Wind Speed","list":[["Wind","1.1","mph"],["Gust","1.6","mph"],
//	    ["Direction Average 2 Minute","111",""]]},
//	  {"title":"Rainfall","list":[["Rate","0.0","inch/hr"],["Year","5.72","inch","47"],
//	    ["Total","10.65","inch","48"]],"range":"Range: 0inch to 393.7inch."},
//	  {"title":"Solar","list":[["Light","261.36","w/"],["UVI","1.2",""]]}
//	 ],
//	 "battery":{"title":"Battery","list":["All battery are ok"]}}
type Document struct {
	Sensor  []Group  `json:"sensor"`
	Battery *Battery `json:"battery"`
}

// Group is one titled cluster of related readings.
type Group struct {
	Title string  `json:"title"`
	List  []Entry `json:"list"`
	Range string  `json:"range,omitempty"`
}

// Battery holds the console's all-or-nothing battery status list.
type Battery struct {
	Title string   `json:"title"`
	List  []string `json:"list"`
}

// Entry is a single reading within a group. The console encodes each one
// as a JSON array of strings: label, value, unit, and sometimes a fourth
// element whose meaning is undocumented.
type Entry struct {
	Label string
	Value string
	Unit  string
	Extra string
}

// UnmarshalJSON decodes the console's tuple encoding, tolerating short
// tuples. Entries shorter than two elements decode to an empty label or
// value and are skipped during translation.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var parts []string
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}

	if len(parts) > 0 {
		e.Label = parts[0]
	}
	if len(parts) > 1 {
		e.Value = parts[1]
	}
	if len(parts) > 2 {
		e.Unit = parts[2]
	}
	if len(parts) > 3 {
		e.Extra = parts[3]
	}

	return nil
}

// MarshalJSON re-encodes the entry in the console's tuple form, so a
// fetched document can be printed back out in diagnostic mode.
func (e Entry) MarshalJSON() ([]byte, error) {
	parts := []string{e.Label, e.Value, e.Unit}
	if e.Extra != "" {
		parts = append(parts, e.Extra)
	}

	return json.Marshal(parts)
}

// Group returns the sensor group with the given title, or nil when the
// console did not report it this cycle.
func (d *Document) Group(title string) *Group {
	for i := range d.Sensor {
		if d.Sensor[i].Title == title {
			return &d.Sensor[i]
		}
	}

	return nil
}
