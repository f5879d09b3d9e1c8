package estimate

import (
	"strings"

	"github.com/dgallion1/steelbid/internal/aisc"
)

// Row is a member with its resolved weight and costs. Nil values are
// unknown: the weight did not resolve or no rate applies.
type Row struct {
	Member
	LbsPerFt       aisc.PerFoot `json:"lbs_per_ft"`
	TotalWeight    *float64     `json:"total_weight"`
	UnknownSection bool         `json:"unknown_section"`
	MaterialCost   *float64     `json:"material_cost"`
	LaborCost      *float64     `json:"labor_cost"`
	TotalCost      *float64     `json:"total_cost"`
}

type Totals struct {
	WeightLbs    float64 `json:"weight_lbs"`
	WeightTons   float64 `json:"weight_tons"`
	MaterialCost float64 `json:"material_cost"`
	LaborCost    float64 `json:"labor_cost"`
	TotalCost    float64 `json:"total_cost"`
	MarkupPct    float64 `json:"markup_pct"`
	MarkupAmount float64 `json:"markup_amount"`
	GrandTotal   float64 `json:"grand_total"`
	UnknownCount int     `json:"unknown_count"`
	MemberCount  int     `json:"member_count"`
}

type Estimate struct {
	Rows   []Row  `json:"rows"`
	Totals Totals `json:"totals"`
}

// Compute resolves weights and prices every member. A row that cannot be
// resolved contributes nothing to the totals but never blocks the others.
func Compute(members []Member, s Settings) Estimate {
	est := Estimate{Rows: make([]Row, 0, len(members))}
	for _, m := range members {
		r := computeRow(m, s)
		est.Rows = append(est.Rows, r)

		t := &est.Totals
		t.WeightLbs += deref(r.TotalWeight)
		t.MaterialCost += deref(r.MaterialCost)
		t.LaborCost += deref(r.LaborCost)
		t.TotalCost += deref(r.TotalCost)
		if r.UnknownSection {
			t.UnknownCount++
		}
	}

	t := &est.Totals
	t.MemberCount = len(members)
	t.WeightTons = t.WeightLbs / 2000
	if s.Markup.Set {
		t.MarkupPct = s.Markup.Value
	}
	t.MarkupAmount = t.TotalCost * t.MarkupPct / 100
	t.GrandTotal = t.TotalCost + t.MarkupAmount
	return est
}

func computeRow(m Member, s Settings) Row {
	r := Row{Member: m}
	section := strings.TrimSpace(m.Section)
	if section == "" {
		return r
	}

	r.LbsPerFt = aisc.LbsPerFt(section)
	r.UnknownSection = !r.LbsPerFt.Known && !r.LbsPerFt.Varies

	w, ok := aisc.TotalWeight(section, m.Quantity, m.LengthFt)
	if !ok || w <= 0 {
		return r
	}
	r.TotalWeight = &w

	if s.MaterialRatePerLb.Set {
		r.MaterialCost = ptr(w * s.MaterialRatePerLb.Value)
	}
	if hpt := s.HoursPerTon(m.Category); s.LaborRatePerHour.Set && hpt.Positive() {
		r.LaborCost = ptr(w / 2000 * hpt.Value * s.LaborRatePerHour.Value)
	}
	if r.MaterialCost != nil || r.LaborCost != nil {
		r.TotalCost = ptr(deref(r.MaterialCost) + deref(r.LaborCost))
	}
	return r
}

func ptr(v float64) *float64 { return &v }

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
