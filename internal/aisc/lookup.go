package aisc

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	pipeRe       = regexp.MustCompile(`(?:STD)?PIPE([0-9./-]+)`)
	nonNumericRe = regexp.MustCompile(`[^0-9.]`)
	hssWallRe    = regexp.MustCompile(`^(HSS(\d+(?:-\d+/\d+)?)(?:X\d+(?:-\d+/\d+)?)?)X(0\.\d+)$`)
	hssSingleRe  = regexp.MustCompile(`^HSS\d+(?:-\d+/\d+)?$`)
	decimalRe    = regexp.MustCompile(`\.\d+`)
	leadingZero  = regexp.MustCompile(`X0+(\d)`)
)

type wallFraction struct {
	value float64
	frac  string
}

// Standard HSS wall thicknesses, checked in this order.
var wallFractions = []wallFraction{
	{0.125, "1/8"},
	{0.1875, "3/16"},
	{0.25, "1/4"},
	{0.3125, "5/16"},
	{0.375, "3/8"},
	{0.5, "1/2"},
	{0.625, "5/8"},
	{0.75, "3/4"},
}

const wallTolerance = 0.01

var decimalFractions = map[string]string{
	".0625": "1/16", ".125": "1/8", ".1875": "3/16", ".25": "1/4",
	".3125": "5/16", ".375": "3/8", ".4375": "7/16", ".5": "1/2",
	".5625": "9/16", ".625": "5/8", ".6875": "11/16", ".75": "3/4",
	".8125": "13/16", ".875": "7/8", ".9375": "15/16",
}

// Lookup resolves a designation to its weight in lbs/ft. The second result is
// false when the designation cannot be resolved; plates are never in the table.
func Lookup(designation string) (float64, bool) {
	if strings.TrimSpace(designation) == "" {
		return 0, false
	}
	key := Normalize(designation)

	if w, ok := lookupPipe(key); ok {
		return w, true
	}
	if w, ok := probe(key); ok {
		return w, true
	}
	if w, ok := lookupHSSDecimalWall(key); ok {
		return w, true
	}

	fractional := decimalRe.ReplaceAllStringFunc(key, func(dec string) string {
		if frac, ok := decimalFractions[dec]; ok {
			return frac
		}
		return dec
	})
	if w, ok := probe(fractional); ok {
		return w, true
	}

	// W8X031 -> W8X31; only the first occurrence.
	if loc := leadingZero.FindStringSubmatchIndex(fractional); loc != nil {
		cleaned := fractional[:loc[0]] + "X" + fractional[loc[2]:loc[3]] + fractional[loc[1]:]
		if w, ok := probe(cleaned); ok {
			return w, true
		}
	}
	return 0, false
}

func lookupPipe(key string) (float64, bool) {
	m := pipeRe.FindStringSubmatch(key)
	if m == nil {
		return 0, false
	}
	size := m[1]
	switch {
	case strings.HasSuffix(size, "-1/2"):
		size = strings.TrimSuffix(size, "-1/2") + ".5"
	case strings.HasSuffix(size, "-1/4"):
		size = strings.TrimSuffix(size, "-1/4") + ".25"
	case strings.HasSuffix(size, "-3/4"):
		size = strings.TrimSuffix(size, "-3/4") + ".75"
	}
	size = nonNumericRe.ReplaceAllString(size, "")
	schedule := "STD"
	if strings.Contains(key, "XH") {
		schedule = "XH"
	}
	return probe("PIPE" + size + schedule)
}

func lookupHSSDecimalWall(key string) (float64, bool) {
	m := hssWallRe.FindStringSubmatch(key)
	if m == nil {
		return 0, false
	}
	base, firstDim := m[1], m[2]
	wall, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return 0, false
	}
	for _, wf := range wallFractions {
		if math.Abs(wall-wf.value) >= wallTolerance {
			continue
		}
		try := base + "X" + wf.frac
		if hssSingleRe.MatchString(base) {
			try = base + "X" + firstDim + "X" + wf.frac
		}
		if w, ok := probe(try); ok {
			return w, true
		}
	}
	return 0, false
}
