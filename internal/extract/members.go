package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/steelbid/internal/estimate"
)

// RawMember is a member row as an extractor returns it. Models are loose
// with types, so numbers may arrive as strings and marks as numbers.
type RawMember struct {
	Mark        FlexString `json:"mark"`
	Description FlexString `json:"description"`
	Section     FlexString `json:"section"`
	Category    FlexString `json:"category"`
	Quantity    FlexNumber `json:"quantity"`
	LengthFt    FlexNumber `json:"length_ft"`
	Notes       FlexString `json:"notes"`
	Page        FlexNumber `json:"page"`
}

// FlexString accepts a JSON string, number, or null.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case string:
		*s = FlexString(t)
	case float64:
		*s = FlexString(strconv.FormatFloat(t, 'f', -1, 64))
	case nil:
		*s = ""
	default:
		*s = FlexString(strings.TrimSpace(string(data)))
	}
	return nil
}

// FlexNumber accepts a JSON number, a numeric string, or a feet-inches
// dimension string such as 20'-6". Anything else leaves it invalid.
type FlexNumber struct {
	Value float64
	Valid bool
}

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = FlexNumber{}
	switch t := v.(type) {
	case float64:
		*n = FlexNumber{Value: t, Valid: true}
	case string:
		if f, ok := ParseLength(t); ok {
			*n = FlexNumber{Value: f, Valid: true}
		}
	}
	return nil
}

func (n FlexNumber) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

var feetInchesRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*'(?:\s*-?\s*(\d+(?:\.\d+)?)?(?:\s*(\d+)/(\d+))?\s*")?$`)

// ParseLength reads a plain number or a feet-inches dimension (20'-6",
// 12', 8'-3 1/2") and returns feet.
func ParseLength(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	m := feetInchesRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	feet, _ := strconv.ParseFloat(m[1], 64)
	inches := 0.0
	if m[2] != "" {
		inches, _ = strconv.ParseFloat(m[2], 64)
	}
	if m[3] != "" {
		num, _ := strconv.ParseFloat(m[3], 64)
		den, _ := strconv.ParseFloat(m[4], 64)
		if den == 0 {
			return 0, false
		}
		inches += num / den
	}
	return feet + inches/12, true
}

var errNoArray = errors.New("no JSON array in response")

// ParseMembers decodes an extractor's reply. It tolerates code fences, a
// {"members": [...]} wrapper, and an array cut off mid-element: the text is
// cut after the last complete object and closed.
func ParseMembers(raw string) ([]RawMember, error) {
	text := stripCodeBlock(raw)
	if text == "" {
		return nil, errNoArray
	}

	var members []RawMember
	err := json.Unmarshal([]byte(text), &members)
	if err == nil {
		return members, nil
	}

	if strings.HasPrefix(text, "{") {
		var wrapped struct {
			Members []RawMember `json:"members"`
		}
		if werr := json.Unmarshal([]byte(text), &wrapped); werr == nil && wrapped.Members != nil {
			return wrapped.Members, nil
		}
	}

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("parse members json: %w (raw: %s)", err, truncate(text, 200))
	}
	salvaged := text[start:end+1] + "]"
	if serr := json.Unmarshal([]byte(salvaged), &members); serr != nil {
		return nil, fmt.Errorf("parse members json: %w (raw: %s)", err, truncate(text, 200))
	}
	return members, nil
}

// ToMember converts a validated raw row into an editable member.
func (r RawMember) ToMember() estimate.Member {
	m := estimate.NewMember()
	m.Mark = strings.TrimSpace(string(r.Mark))
	m.Description = strings.TrimSpace(string(r.Description))
	m.Section = strings.TrimSpace(string(r.Section))
	m.Notes = strings.TrimSpace(string(r.Notes))

	if r.Quantity.Valid && r.Quantity.Value >= 1 {
		m.Quantity = int(r.Quantity.Value)
	}
	if r.LengthFt.Valid && r.LengthFt.Value > 0 {
		m.LengthFt = r.LengthFt.Value
	}
	if c, ok := estimate.ParseCategory(string(r.Category)); ok {
		m.Category = c
	} else {
		m.Category = estimate.AutoCategory(m.Section, m.Description)
	}
	return m
}

// TagPage prefixes notes with the source page: "Pg3 - grid B" or "Pg3".
func TagPage(notes string, page int) string {
	if page <= 0 {
		return notes
	}
	tag := fmt.Sprintf("Pg%d", page)
	if notes == "" {
		return tag
	}
	return tag + " - " + notes
}
