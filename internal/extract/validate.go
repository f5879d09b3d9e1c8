package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxQuantity       = 10000
	maxMarkLen        = 32
	maxSectionLen     = 48
	maxDescriptionLen = 200
	maxNotesLen       = 500
)

var injectionPattern = regexp.MustCompile(
	`(?i)(ignore\s+(previous|all|above)|system\s*prompt|you\s+are\s+now|` +
		`forget\s+(everything|all)|new\s+instructions)`,
)

// ValidateMember checks an extracted row and clamps it into range. Rows
// with nothing to identify them, or carrying instruction-like text lifted
// from the drawing, are rejected.
func ValidateMember(m *RawMember) bool {
	if m == nil {
		return false
	}
	m.Mark = FlexString(clip(string(m.Mark), maxMarkLen))
	m.Section = FlexString(clip(string(m.Section), maxSectionLen))
	m.Description = FlexString(clip(string(m.Description), maxDescriptionLen))
	m.Notes = FlexString(clip(string(m.Notes), maxNotesLen))

	if m.Mark == "" && m.Section == "" && m.Description == "" {
		return false
	}
	for _, s := range []FlexString{m.Mark, m.Section, m.Description, m.Notes} {
		if injectionPattern.MatchString(string(s)) {
			return false
		}
	}

	switch {
	case !m.Quantity.Valid || m.Quantity.Value < 1:
		m.Quantity = FlexNumber{Value: 1, Valid: true}
	case m.Quantity.Value > MaxQuantity:
		m.Quantity.Value = MaxQuantity
	}
	if m.LengthFt.Valid && m.LengthFt.Value < 0 {
		m.LengthFt.Value = 0
	}
	return true
}

// clip trims whitespace and truncates to n bytes on a rune boundary.
func clip(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return strings.TrimSpace(s[:n])
}
