package slug

import (
	"strings"
	"unicode"
)

// Fallback names notes whose label has no usable characters.
const Fallback = "session"

// Make lowercases label and joins its letter and digit runs with single
// dashes, e.g. "Deep Work!" -> "deep-work".
func Make(label string) string {
	var sb strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(label) {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			pendingDash = sb.Len() > 0
			continue
		}
		if pendingDash {
			sb.WriteByte('-')
			pendingDash = false
		}
		sb.WriteRune(r)
	}
	if sb.Len() == 0 {
		return Fallback
	}
	return sb.String()
}
