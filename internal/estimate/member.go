package estimate

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category drives which hours-per-ton rate prices a member's labor.
type Category string

const (
	Structural Category = "Structural"
	Misc       Category = "Misc"
	Plate      Category = "Plate"
	Connection Category = "Connection"
)

// Categories lists every category in display order.
var Categories = []Category{Structural, Misc, Plate, Connection}

// ParseCategory matches a category name case-insensitively. It returns false
// for anything else.
func ParseCategory(s string) (Category, bool) {
	c := Category(cases.Title(language.Und).String(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// AutoCategory guesses a category from the section and description text.
func AutoCategory(section, description string) Category {
	s := strings.ToUpper(section)
	d := strings.ToUpper(description)
	switch {
	case strings.HasPrefix(s, "PL") || strings.Contains(d, "PLATE"):
		return Plate
	case containsAny(d, "BOLT", "SHEAR", "CLIP", "EMBED"):
		return Connection
	case containsAny(d, "STAIR", "HANDRAIL", "GRATING", "LADDER", "MISC"):
		return Misc
	default:
		return Structural
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Member is one line of a steel takeoff.
type Member struct {
	ID          string   `json:"id"`
	Mark        string   `json:"mark"`
	Description string   `json:"description"`
	Section     string   `json:"section"`
	Category    Category `json:"category"`
	Quantity    int      `json:"quantity"`
	LengthFt    float64  `json:"length_ft"`
	Notes       string   `json:"notes"`
}

// NewMember returns an empty structural row with a quantity of one.
func NewMember() Member {
	return Member{
		ID:       uuid.NewString(),
		Category: Structural,
		Quantity: 1,
	}
}

// Normalize fills in an ID and a category if either is missing or invalid.
func (m *Member) Normalize() {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if c, ok := ParseCategory(string(m.Category)); ok {
		m.Category = c
	} else {
		m.Category = AutoCategory(m.Section, m.Description)
	}
}

// Apply sets a single field from its string form, the way an editable grid
// submits changes. Editing the section or description re-derives the
// category. Unknown fields are ignored; unparseable numbers become zero.
func (m *Member) Apply(field, value string) {
	switch field {
	case "mark":
		m.Mark = value
	case "description":
		m.Description = value
		m.Category = AutoCategory(m.Section, m.Description)
	case "section":
		m.Section = value
		m.Category = AutoCategory(m.Section, m.Description)
	case "category":
		if c, ok := ParseCategory(value); ok {
			m.Category = c
		}
	case "quantity":
		m.Quantity = parseLeadingInt(value)
	case "length_ft":
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			v = 0
		}
		m.LengthFt = v
	case "notes":
		m.Notes = value
	}
}

// parseLeadingInt reads the leading integer of s ("12 pcs" -> 12).
func parseLeadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && (s[end] == '-' || s[end] == '+')) {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
