// Package export renders an estimate as a bid workbook or a printable bid
// sheet.
package export

import (
	"time"

	"github.com/dgallion1/steelbid/internal/estimate"
)

// Bid is everything a bid document shows.
type Bid struct {
	JobName  string
	Settings estimate.Settings
	Estimate estimate.Estimate
	Date     time.Time
}

var columns = []struct {
	title string
	width float64 // Excel character units
}{
	{"Mark", 8},
	{"Description", 28},
	{"Section", 16},
	{"Category", 12},
	{"Qty", 6},
	{"Length (ft)", 11},
	{"Lbs/ft", 9},
	{"Total Weight", 14},
	{"Mat. Cost", 12},
	{"Labor Cost", 12},
	{"Notes", 36},
}

func (b Bid) jobName() string {
	if b.JobName == "" {
		return "Untitled Job"
	}
	return b.JobName
}

func (b Bid) date() time.Time {
	if b.Date.IsZero() {
		return time.Now()
	}
	return b.Date
}

// Filename suggests a download name, e.g. "warehouse-bid.xlsx".
func Filename(jobName, ext string) string {
	slug := make([]rune, 0, len(jobName))
	dash := false
	for _, r := range jobName {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			slug = append(slug, r)
			dash = false
		case r >= 'A' && r <= 'Z':
			slug = append(slug, r+'a'-'A')
			dash = false
		default:
			if len(slug) > 0 && !dash {
				slug = append(slug, '-')
				dash = true
			}
		}
	}
	s := string(slug)
	for len(s) > 0 && s[len(s)-1] == '-' {
		s = s[:len(s)-1]
	}
	if s == "" {
		s = "estimate"
	}
	return s + "-bid." + ext
}
