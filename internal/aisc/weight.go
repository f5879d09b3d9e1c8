package aisc

import (
	"encoding/json"
	"strconv"
	"strings"
)

// PerFoot is a per-foot weight that may be a number, vary with plate width,
// or be unknown.
type PerFoot struct {
	Value  float64
	Known  bool
	Varies bool
}

func (p PerFoot) MarshalJSON() ([]byte, error) {
	switch {
	case p.Varies:
		return []byte(`"varies"`), nil
	case p.Known:
		return json.Marshal(p.Value)
	default:
		return []byte("null"), nil
	}
}

func (p *PerFoot) UnmarshalJSON(data []byte) error {
	*p = PerFoot{}
	s := strings.TrimSpace(string(data))
	switch s {
	case "null", "":
		return nil
	case `"varies"`:
		p.Varies = true
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	p.Value, p.Known = v, true
	return nil
}

func (p PerFoot) String() string {
	switch {
	case p.Varies:
		return "varies"
	case p.Known:
		return strconv.FormatFloat(p.Value, 'f', -1, 64)
	default:
		return "unknown"
	}
}

// LbsPerFt returns the per-foot weight of a designation. Plates report
// "varies" because their weight depends on width.
func LbsPerFt(designation string) PerFoot {
	if strings.TrimSpace(designation) == "" {
		return PerFoot{}
	}
	if IsPlate(designation) {
		return PerFoot{Varies: true}
	}
	w, ok := Lookup(designation)
	if !ok {
		return PerFoot{}
	}
	return PerFoot{Value: w, Known: true}
}

// TotalWeight returns the total weight in lbs of quantity pieces of the given
// length. It is unresolved unless every input is present and positive.
func TotalWeight(designation string, quantity int, lengthFt float64) (float64, bool) {
	if strings.TrimSpace(designation) == "" || quantity <= 0 || !(lengthFt > 0) {
		return 0, false
	}
	if IsPlate(designation) {
		p, ok := PlateWeight(designation, lengthFt)
		if !ok {
			return 0, false
		}
		return round1(p.TotalWeight * float64(quantity)), true
	}
	lbs, ok := Lookup(designation)
	if !ok {
		return 0, false
	}
	return round1(lbs * lengthFt * float64(quantity)), true
}
