package aisc

import (
	"regexp"
	"strings"
)

// Rule is a single named rewrite step applied to a raw designation.
type Rule struct {
	Name  string
	Apply func(string) string
}

var unicodeFractions = strings.NewReplacer(
	"⅛", "1/8",
	"¼", "1/4",
	"⅜", "3/8",
	"½", "1/2",
	"⅝", "5/8",
	"¾", "3/4",
	"⅞", "7/8",
	"⅓", "1/3",
	"⅔", "2/3",
)

var (
	mixedFractionRe = regexp.MustCompile(`(\d)(1/8|1/4|3/8|1/2|5/8|3/4|7/8|1/3|2/3)`)
	halfRe          = regexp.MustCompile(`\b([1-9])\.5\b`)
	quarterRe       = regexp.MustCompile(`\b([1-9])\.25\b`)
	threeQuarterRe  = regexp.MustCompile(`\b([1-9])\.75\b`)
	whitespaceRe    = regexp.MustCompile(`[\s\p{Z}]+`)
)

// NormalizeRules run in order; each one targets a single way drawings and
// transcriptions disagree with the table's key format.
var NormalizeRules = []Rule{
	{Name: "unicode-fractions", Apply: unicodeFractions.Replace},
	{Name: "upper-x", Apply: func(s string) string {
		return strings.ReplaceAll(s, "x", "X")
	}},
	{Name: "hyphenate-mixed-fraction", Apply: func(s string) string {
		return mixedFractionRe.ReplaceAllString(s, "${1}-${2}")
	}},
	{Name: "decimal-eighths", Apply: func(s string) string {
		// \b keeps glued decimals like C4X7.25 and walls like 0.312 intact.
		s = halfRe.ReplaceAllString(s, "${1}-1/2")
		s = quarterRe.ReplaceAllString(s, "${1}-1/4")
		return threeQuarterRe.ReplaceAllString(s, "${1}-3/4")
	}},
	{Name: "strip-upper", Apply: func(s string) string {
		return strings.ToUpper(whitespaceRe.ReplaceAllString(s, ""))
	}},
}

// Normalize rewrites a designation into table key form.
func Normalize(designation string) string {
	s := designation
	for _, r := range NormalizeRules {
		s = r.Apply(s)
	}
	return s
}

// IsPlate reports whether a designation names a plate (PL...).
func IsPlate(designation string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(designation)), "PL")
}
