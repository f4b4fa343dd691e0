package utils

// Truncate cuts s to at most maxChars runes. Prompt excerpts are budgeted in
// characters, not bytes, so multibyte content does not overshoot.
func Truncate(s string, maxChars int) string {
	if maxChars <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
