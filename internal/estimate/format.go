package estimate

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func printer() *message.Printer {
	return message.NewPrinter(language.AmericanEnglish)
}

// FormatNumber renders a whole number with en-US grouping. Zero is shown.
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "--"
	}
	return printer().Sprintf("%.0f", v)
}

// FormatWeight renders lbs, or "--" when there is nothing to show.
func FormatWeight(v float64) string {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return "--"
	}
	return printer().Sprintf("%.0f lbs", v)
}

// FormatMoney renders whole dollars, or "--" when there is nothing to show.
func FormatMoney(v float64) string {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return "--"
	}
	return printer().Sprintf("$%.0f", v)
}

// FormatOptional applies f to a possibly unknown value.
func FormatOptional(v *float64, f func(float64) string) string {
	if v == nil {
		return "--"
	}
	return f(*v)
}
