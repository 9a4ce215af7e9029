// Package cmd runs external commands with stderr folded into the error.
//
// wsmux talks to tmux exclusively through its command line. Every call
// goes through [OutputContext], which logs the command in verbose mode
// and returns an [*Error] whose message is tmux's own complaint:
//
//	out, err := cmd.OutputContext(ctx, "", "tmux", "list-windows", "-t", "=main")
//	if err != nil {
//	    var exitErr *exec.ExitError
//	    if errors.As(err, &exitErr) { ... } // tmux ran and failed
//	}
//
// Callers that must tell "binary missing" from "tmux said no" use
// errors.Is(err, exec.ErrNotFound) and errors.As with *exec.ExitError.
package cmd
