package estimate

import (
	"encoding/json"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultCompanyName is shown on bids until the shop sets its own.
const DefaultCompanyName = "Steel Estimator"

// Number is an optional non-negative setting. Blank, unparseable and
// negative inputs all leave it unset.
type Number struct {
	Value float64
	Set   bool
}

// N returns a set Number.
func N(v float64) Number {
	if v < 0 {
		return Number{}
	}
	return Number{Value: v, Set: true}
}

// ParseNumber reads a Number from user input such as "0.85" or " 12 ".
func ParseNumber(s string) Number {
	s = strings.TrimSpace(s)
	if s == "" {
		return Number{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Number{}
	}
	return N(v)
}

// Positive reports whether the number is set and greater than zero.
func (n Number) Positive() bool {
	return n.Set && n.Value > 0
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Set {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n *Number) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		*n = Number{}
		return nil
	}
	switch t := v.(type) {
	case float64:
		*n = N(t)
	case string:
		*n = ParseNumber(t)
	default:
		*n = Number{}
	}
	return nil
}

func (n Number) MarshalYAML() (any, error) {
	if !n.Set {
		return nil, nil
	}
	return n.Value, nil
}

func (n *Number) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode || value.Tag == "!!null" {
		*n = Number{}
		return nil
	}
	*n = ParseNumber(value.Value)
	return nil
}

// Settings are the shop's pricing rules.
type Settings struct {
	CompanyName           string `json:"company_name" yaml:"company_name"`
	MaterialRatePerLb     Number `json:"material_rate_per_lb" yaml:"material_rate_per_lb"`
	LaborRatePerHour      Number `json:"labor_rate_per_hour" yaml:"labor_rate_per_hour"`
	HoursPerTonStructural Number `json:"hours_per_ton_structural" yaml:"hours_per_ton_structural"`
	HoursPerTonMisc       Number `json:"hours_per_ton_misc" yaml:"hours_per_ton_misc"`
	HoursPerTonPlate      Number `json:"hours_per_ton_plate" yaml:"hours_per_ton_plate"`
	Markup                Number `json:"markup" yaml:"markup"`
}

// DefaultSettings has the default company name and no rates.
func DefaultSettings() Settings {
	return Settings{CompanyName: DefaultCompanyName}
}

// WithDefaults fills a blank company name.
func (s Settings) WithDefaults() Settings {
	if strings.TrimSpace(s.CompanyName) == "" {
		s.CompanyName = DefaultCompanyName
	}
	return s
}

// HoursPerTon returns the labor hours per ton for a category. Connections
// are priced at the structural rate.
func (s Settings) HoursPerTon(c Category) Number {
	switch c {
	case Plate:
		return s.HoursPerTonPlate
	case Misc:
		return s.HoursPerTonMisc
	default:
		return s.HoursPerTonStructural
	}
}

// HasRates reports whether any pricing is configured.
func (s Settings) HasRates() bool {
	return s.MaterialRatePerLb.Set || s.LaborRatePerHour.Set
}
