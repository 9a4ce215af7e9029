// Package slug turns arbitrary path segments into tmux-safe window names.
package slug

import "strings"

// Fallback is returned when nothing usable survives sanitizing.
const Fallback = "workspace"

// Sanitize keeps ASCII letters, digits, '.', '_' and '-', and collapses
// every maximal run of anything else into a single '_'. It never returns
// an empty string.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	for _, r := range s {
		if allowed(r) {
			b.WriteRune(r)
			inRun = false
			continue
		}
		if !inRun {
			b.WriteByte('_')
			inRun = true
		}
	}
	if b.Len() == 0 {
		return Fallback
	}
	return b.String()
}

func allowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.', r == '_', r == '-':
		return true
	}
	return false
}
