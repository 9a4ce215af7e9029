// Package shell quotes values for POSIX shells and fish and holds the rc
// snippets that hand new terminals to wsmux.
package shell

import "strings"

// Single quotes and backslashes are emitted unquoted with a backslash
// escape, which both POSIX shells and fish read as the literal character.
// Inside fish single quotes \\ and \' are still escapes.
var quoteReplacer = strings.NewReplacer(`'`, `'\''`, `\`, `'\\'`)

// Quote wraps s in single quotes so that a POSIX shell or fish reads it
// as one literal word.
func Quote(s string) string {
	return "'" + quoteReplacer.Replace(s) + "'"
}

// CdCommand returns a command line that changes into dir without letting
// the shell interpret anything inside it.
func CdCommand(dir string) string {
	return "cd -- " + Quote(dir)
}
