package estimate

import (
	"encoding/json"
	"math"
	"testing"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func pricedSettings() Settings {
	return Settings{
		MaterialRatePerLb:     N(1),
		LaborRatePerHour:      N(50),
		HoursPerTonStructural: N(10),
		HoursPerTonPlate:      N(20),
		Markup:                N(10),
	}
}

func TestCompute_RowsAndTotals(t *testing.T) {
	members := []Member{
		{Mark: "B1", Section: "W8X31", Category: Structural, Quantity: 2, LengthFt: 10},
		{Mark: "P1", Section: "PL1/2X6", Category: Plate, Quantity: 1, LengthFt: 10},
		{Mark: "X1", Section: "W99X99", Category: Structural, Quantity: 1, LengthFt: 10},
		{Mark: "N1", Section: "", Category: Structural, Quantity: 1, LengthFt: 10},
	}
	est := Compute(members, pricedSettings())

	if len(est.Rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(est.Rows))
	}

	beam := est.Rows[0]
	if beam.TotalWeight == nil || !near(*beam.TotalWeight, 620) {
		t.Fatalf("beam weight = %v, want 620", beam.TotalWeight)
	}
	if !near(*beam.MaterialCost, 620) || !near(*beam.LaborCost, 155) || !near(*beam.TotalCost, 775) {
		t.Errorf("beam costs = %v/%v/%v", *beam.MaterialCost, *beam.LaborCost, *beam.TotalCost)
	}

	plate := est.Rows[1]
	if !plate.LbsPerFt.Varies {
		t.Error("expected plate per-foot weight to vary")
	}
	if plate.TotalWeight == nil || !near(*plate.TotalWeight, 102) {
		t.Fatalf("plate weight = %v, want 102", plate.TotalWeight)
	}
	if !near(*plate.LaborCost, 51) {
		t.Errorf("plate labor = %v, want 51 at plate hours", *plate.LaborCost)
	}

	unknown := est.Rows[2]
	if !unknown.UnknownSection || unknown.TotalWeight != nil || unknown.TotalCost != nil {
		t.Errorf("unexpected unknown row %+v", unknown)
	}

	blank := est.Rows[3]
	if blank.UnknownSection || blank.TotalWeight != nil {
		t.Errorf("blank section should be neither unknown nor weighed: %+v", blank)
	}

	tot := est.Totals
	if !near(tot.WeightLbs, 722) || !near(tot.WeightTons, 0.361) {
		t.Errorf("weight totals = %v lbs / %v tons", tot.WeightLbs, tot.WeightTons)
	}
	if !near(tot.MaterialCost, 722) || !near(tot.LaborCost, 206) || !near(tot.TotalCost, 928) {
		t.Errorf("cost totals = %v/%v/%v", tot.MaterialCost, tot.LaborCost, tot.TotalCost)
	}
	if !near(tot.MarkupAmount, 92.8) || !near(tot.GrandTotal, 1020.8) {
		t.Errorf("markup = %v, grand total = %v", tot.MarkupAmount, tot.GrandTotal)
	}
	if tot.UnknownCount != 1 || tot.MemberCount != 4 {
		t.Errorf("unknown = %d, members = %d", tot.UnknownCount, tot.MemberCount)
	}
}

func TestCompute_NoRates(t *testing.T) {
	est := Compute([]Member{{Section: "W8X31", Quantity: 1, LengthFt: 10}}, DefaultSettings())
	r := est.Rows[0]
	if r.TotalWeight == nil || !near(*r.TotalWeight, 310) {
		t.Fatalf("weight = %v, want 310", r.TotalWeight)
	}
	if r.MaterialCost != nil || r.LaborCost != nil || r.TotalCost != nil {
		t.Errorf("expected no costs without rates: %+v", r)
	}
	if est.Totals.GrandTotal != 0 {
		t.Errorf("expected zero grand total, got %v", est.Totals.GrandTotal)
	}
}

func TestCompute_LaborNeedsHours(t *testing.T) {
	s := pricedSettings()
	est := Compute([]Member{{Section: "W8X31", Category: Misc, Quantity: 1, LengthFt: 10}}, s)
	r := est.Rows[0]
	if r.LaborCost != nil {
		t.Errorf("expected no labor without misc hours, got %v", *r.LaborCost)
	}
	if r.TotalCost == nil || !near(*r.TotalCost, 310) {
		t.Errorf("expected material-only total 310, got %v", r.TotalCost)
	}
}

func TestCompute_BadRowsDoNotBlock(t *testing.T) {
	members := []Member{
		{Section: "W8X31", Quantity: 0, LengthFt: 10},
		{Section: "W8X31", Quantity: 1, LengthFt: -5},
		{Section: "W8X31", Quantity: 1, LengthFt: 10},
	}
	est := Compute(members, DefaultSettings())
	if est.Rows[0].TotalWeight != nil || est.Rows[1].TotalWeight != nil {
		t.Error("expected invalid rows to have no weight")
	}
	if !near(est.Totals.WeightLbs, 310) {
		t.Errorf("expected 310 lbs total, got %v", est.Totals.WeightLbs)
	}
}

func TestRow_JSON(t *testing.T) {
	est := Compute([]Member{{ID: "a", Section: "W99X99", Quantity: 1, LengthFt: 1}}, DefaultSettings())
	b, err := json.Marshal(est.Rows[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["id"] != "a" || got["section"] != "W99X99" {
		t.Errorf("expected member fields inline, got %v", got)
	}
	if got["total_weight"] != nil || got["lbs_per_ft"] != nil {
		t.Errorf("expected null weights, got %v / %v", got["total_weight"], got["lbs_per_ft"])
	}
	if got["unknown_section"] != true {
		t.Errorf("expected unknown_section true, got %v", got["unknown_section"])
	}
}
