// Package rcblock maintains a marked block of lines inside a text file,
// such as the wsmux snippet in a shell rc file.
//
// A block starts at a line equal to the start marker and ends at the next
// line equal to the end marker, both inclusive. A start marker with no end
// marker after it extends the block to the end of the file. Lines are
// compared with surrounding whitespace trimmed.
package rcblock

import (
	"bytes"
	"strings"

	"github.com/raphi011/wsmux/internal/storage"
)

// Upsert replaces every block in path with a single block holding body,
// appended at the end of the file. Bytes outside the blocks are left
// untouched, except that a missing final newline is added before the new
// block. The file is created if it does not exist. changed is false when
// the file already had exactly this content.
func Upsert(path, start, end, body string) (changed bool, err error) {
	data, err := storage.ReadFile(path)
	if err != nil {
		return false, err
	}

	out := strip(data, start, end)
	if len(out) > 0 && out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	out = append(out, Render(start, end, body)...)

	if bytes.Equal(out, data) {
		return false, nil
	}
	return true, storage.WriteFile(path, out, 0o644)
}

// Remove deletes every block from path. A missing file is left missing.
func Remove(path, start, end string) (changed bool, err error) {
	data, err := storage.ReadFile(path)
	if err != nil || data == nil {
		return false, err
	}
	out := strip(data, start, end)
	if bytes.Equal(out, data) {
		return false, nil
	}
	return true, storage.WriteFile(path, out, 0o644)
}

// Contains reports whether path has a line equal to start.
func Contains(path, start string) (bool, error) {
	data, err := storage.ReadFile(path)
	if err != nil {
		return false, err
	}
	for _, line := range lines(data) {
		if isMarker(line, start) {
			return true, nil
		}
	}
	return false, nil
}

// Render returns the block text for body, newline terminated.
func Render(start, end, body string) string {
	var b strings.Builder
	b.WriteString(start)
	b.WriteByte('\n')
	if body = strings.TrimRight(body, "\n"); body != "" {
		b.WriteString(body)
		b.WriteByte('\n')
	}
	b.WriteString(end)
	b.WriteByte('\n')
	return b.String()
}

// strip returns data without its blocks.
func strip(data []byte, start, end string) []byte {
	out := make([]byte, 0, len(data))
	inside := false
	for _, line := range lines(data) {
		switch {
		case !inside && isMarker(line, start):
			inside = true
		case inside && isMarker(line, end):
			inside = false
		case !inside:
			out = append(out, line...)
		}
	}
	return out
}

// lines splits data after each newline, keeping the newlines.
func lines(data []byte) [][]byte {
	if len(data) == 0 {
		return nil
	}
	return bytes.SplitAfter(data, []byte("\n"))
}

func isMarker(line []byte, marker string) bool {
	return string(bytes.TrimSpace(line)) == marker
}
