package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dgallion1/steelbid/internal/aisc"
)

const maxBatchDesignations = 5000

// SectionWeight is the resolution of one designation.
type SectionWeight struct {
	Designation string       `json:"designation"`
	Normalized  string       `json:"normalized"`
	Resolved    bool         `json:"resolved"`
	IsPlate     bool         `json:"is_plate"`
	LbsPerFt    aisc.PerFoot `json:"lbs_per_ft"`
	Quantity    int          `json:"quantity,omitempty"`
	LengthFt    float64      `json:"length_ft,omitempty"`
	TotalWeight *float64     `json:"total_weight"`
	Plate       *aisc.Plate  `json:"plate,omitempty"`
}

func resolveSection(designation string, quantity int, lengthFt float64) SectionWeight {
	sw := SectionWeight{
		Designation: designation,
		Normalized:  aisc.Normalize(designation),
		IsPlate:     aisc.IsPlate(designation),
		LbsPerFt:    aisc.LbsPerFt(designation),
		Quantity:    quantity,
		LengthFt:    lengthFt,
	}
	if sw.IsPlate {
		if p, ok := aisc.PlateWeight(designation, lengthFt); ok {
			sw.Plate = &p
			sw.Resolved = true
		}
	} else {
		sw.Resolved = sw.LbsPerFt.Known
	}
	if w, ok := aisc.TotalWeight(designation, quantity, lengthFt); ok {
		sw.TotalWeight = &w
	}
	return sw
}

func (s *Server) handleListSections(w http.ResponseWriter, r *http.Request) {
	sections := aisc.Sections(r.URL.Query().Get("prefix"))
	writeJSON(w, http.StatusOK, map[string]any{
		"sections": sections,
		"count":    len(sections),
	})
}

func (s *Server) handleSectionWeight(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	designation := strings.TrimSpace(q.Get("designation"))
	if designation == "" {
		jsonError(w, "designation is required", http.StatusBadRequest)
		return
	}

	var lengthFt float64
	if v := q.Get("length_ft"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			jsonError(w, "length_ft must be a non-negative number", http.StatusBadRequest)
			return
		}
		lengthFt = f
	}
	quantity := 1
	if v := q.Get("quantity"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			jsonError(w, "quantity must be a positive integer", http.StatusBadRequest)
			return
		}
		quantity = n
	}

	writeJSON(w, http.StatusOK, resolveSection(designation, quantity, lengthFt))
}

type weightItem struct {
	Designation string  `json:"designation"`
	Quantity    int     `json:"quantity"`
	LengthFt    float64 `json:"length_ft"`
}

func (s *Server) handleSectionWeights(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items []weightItem `json:"items"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Items) > maxBatchDesignations {
		jsonError(w, "too many designations", http.StatusRequestEntityTooLarge)
		return
	}

	results := make([]SectionWeight, 0, len(req.Items))
	unresolved := 0
	for _, it := range req.Items {
		qty := it.Quantity
		if qty == 0 {
			qty = 1
		}
		sw := resolveSection(it.Designation, qty, it.LengthFt)
		if !sw.Resolved {
			unresolved++
		}
		results = append(results, sw)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results":    results,
		"unresolved": unresolved,
	})
}
