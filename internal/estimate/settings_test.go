package estimate

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want Number
	}{
		{`0.85`, Number{Value: 0.85, Set: true}},
		{`"12"`, Number{Value: 12, Set: true}},
		{`" 15.5 "`, Number{Value: 15.5, Set: true}},
		{`""`, Number{}},
		{`"abc"`, Number{}},
		{`-4`, Number{}},
		{`null`, Number{}},
		{`true`, Number{}},
		{`0`, Number{Value: 0, Set: true}},
	}
	for _, tt := range tests {
		var n Number
		if err := json.Unmarshal([]byte(tt.in), &n); err != nil {
			t.Fatalf("Unmarshal(%s): %v", tt.in, err)
		}
		if n != tt.want {
			t.Errorf("Unmarshal(%s) = %+v, want %+v", tt.in, n, tt.want)
		}
	}
}

func TestSettings_JSON(t *testing.T) {
	s := DefaultSettings()
	s.MaterialRatePerLb = N(0.85)

	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["company_name"] != DefaultCompanyName {
		t.Errorf("expected company name %q, got %v", DefaultCompanyName, got["company_name"])
	}
	if got["material_rate_per_lb"] != 0.85 {
		t.Errorf("expected material rate 0.85, got %v", got["material_rate_per_lb"])
	}
	if got["markup"] != nil {
		t.Errorf("expected null markup, got %v", got["markup"])
	}
}

func TestSettings_YAML(t *testing.T) {
	doc := `
company_name: Acme Steel
material_rate_per_lb: 0.85
labor_rate_per_hour: "65"
hours_per_ton_structural: 12
hours_per_ton_plate: ""
markup: 15
`
	var s Settings
	if err := yaml.Unmarshal([]byte(doc), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.CompanyName != "Acme Steel" {
		t.Errorf("expected company name, got %q", s.CompanyName)
	}
	if s.MaterialRatePerLb != N(0.85) || s.LaborRatePerHour != N(65) || s.Markup != N(15) {
		t.Errorf("unexpected rates: %+v", s)
	}
	if s.HoursPerTonPlate.Set || s.HoursPerTonMisc.Set {
		t.Errorf("expected plate and misc hours unset, got %+v / %+v", s.HoursPerTonPlate, s.HoursPerTonMisc)
	}
}

func TestSettings_WithDefaults(t *testing.T) {
	if got := (Settings{}).WithDefaults().CompanyName; got != DefaultCompanyName {
		t.Errorf("expected default company name, got %q", got)
	}
	if got := (Settings{CompanyName: "Acme"}).WithDefaults().CompanyName; got != "Acme" {
		t.Errorf("expected Acme, got %q", got)
	}
}

func TestSettings_HoursPerTon(t *testing.T) {
	s := Settings{
		HoursPerTonStructural: N(12),
		HoursPerTonMisc:       N(30),
		HoursPerTonPlate:      N(20),
	}
	tests := []struct {
		c    Category
		want float64
	}{
		{Structural, 12},
		{Connection, 12},
		{Misc, 30},
		{Plate, 20},
	}
	for _, tt := range tests {
		if got := s.HoursPerTon(tt.c); got.Value != tt.want {
			t.Errorf("HoursPerTon(%s) = %v, want %v", tt.c, got.Value, tt.want)
		}
	}
}
