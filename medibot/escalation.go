package medibot

import "strings"

// summaryMarker is the literal substring the triage model emits when it has
// produced its final case summary. Its presence in a reply is what triggers
// the see-a-doctor prompt, so all scanning goes through the two functions
// below rather than being inlined at call sites.
const summaryMarker = "summary:"

// HasSummary reports whether reply contains the case summary marker,
// case-insensitively.
func HasSummary(reply string) bool {
	return strings.Contains(strings.ToLower(reply), summaryMarker)
}

// SplitSummary splits reply at the first occurrence of the summary marker.
// When the marker is present it returns the recommendation part and the
// summary part (marker included), both trimmed, and ok=true. Otherwise it
// returns the reply unchanged with an empty summary.
func SplitSummary(reply string) (recommendation, summary string, ok bool) {
	i := strings.Index(strings.ToLower(reply), summaryMarker)
	if i < 0 {
		return reply, "", false
	}
	return strings.TrimSpace(reply[:i]), strings.TrimSpace(reply[i:]), true
}
