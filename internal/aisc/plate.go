package aisc

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// SteelDensity is the weight of carbon steel in lbs per cubic inch.
const SteelDensity = 0.2833

var (
	plateRe       = regexp.MustCompile(`PL([0-9./-]+)X([0-9.]+)`)
	spacedMixedRe = regexp.MustCompile(`(\d)[\s\p{Z}]+(\d+/\d+)`)
)

// Plate is the computed weight of a plate over a given length.
type Plate struct {
	TotalWeight float64 `json:"total_weight"`
	LbsPerFt    float64 `json:"lbs_per_ft"`
}

// PlateWeight computes a plate's weight by volume from a PL<t>X<w>[X<l>]
// designation and a length in feet. Thickness and width are in inches.
func PlateWeight(designation string, lengthFt float64) (Plate, bool) {
	if !IsPlate(designation) || !(lengthFt > 0) || math.IsInf(lengthFt, 0) {
		return Plate{}, false
	}
	key := plateKey(designation)
	m := plateRe.FindStringSubmatch(key)
	if m == nil {
		return Plate{}, false
	}
	thickness, ok := parseInches(m[1])
	if !ok {
		return Plate{}, false
	}
	width, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return Plate{}, false
	}

	weight := thickness * width * lengthFt * 12 * SteelDensity
	return Plate{
		TotalWeight: round1(weight),
		LbsPerFt:    round1(weight / lengthFt),
	}, true
}

// plateKey folds "PL 1 1/2 X 6" and "PL1½X6" to PL1-1/2X6 so the whole
// inch is not read as part of the numerator.
func plateKey(designation string) string {
	s := unicodeFractions.Replace(designation)
	s = spacedMixedRe.ReplaceAllString(s, "${1}-${2}")
	s = mixedFractionRe.ReplaceAllString(s, "${1}-${2}")
	return strings.ToUpper(whitespaceRe.ReplaceAllString(s, ""))
}

// parseInches accepts 1/2, 1-1/2 and 0.5 forms.
func parseInches(s string) (float64, bool) {
	whole := 0.0
	if i := strings.Index(s, "-"); i > 0 && strings.Contains(s[i:], "/") {
		w, err := strconv.ParseFloat(s[:i], 64)
		if err != nil {
			return 0, false
		}
		whole, s = w, s[i+1:]
	}
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, false
		}
		d, err := strconv.ParseFloat(den, 64)
		if err != nil || d == 0 {
			return 0, false
		}
		return whole + n/d, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return whole + v, true
}

// round1 rounds to one decimal place, halves rounding up.
func round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
