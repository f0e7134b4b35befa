package notify

// ellipsis is appended to truncated text
const ellipsis = "..."

// Truncate shortens s to at most limit runes, appending "..." when anything was cut.
// The result is never longer than limit+3 runes and equals s when s already fits.
func Truncate(s string, limit int) string {
	if limit < 0 {
		limit = 0
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + ellipsis
}
