package chunker

import "strings"

// EstimateTokens gives a rough token count for logging and metrics. Drawing
// text is dense with designations like W8X31, so characters are a better
// proxy than words.
func EstimateTokens(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	tokens := len(text) / 4
	if words := len(strings.Fields(text)); words > tokens {
		tokens = words
	}
	return tokens
}
