// Package guard decides whether a shell should hand its terminal to tmux.
package guard

import (
	"os"
	"os/exec"

	"github.com/mattn/go-isatty"
)

// Input holds everything Check looks at. FromEnv fills it from the process.
type Input struct {
	TMUX        string // value of $TMUX
	TermProgram string // value of $TERM_PROGRAM
	// Expected is the required $TERM_PROGRAM; empty accepts any terminal.
	Expected    string
	Interactive bool
	// Force skips the terminal-program check.
	Force    bool
	Binary   string
	LookPath func(string) (string, error)
}

// Decision is the outcome of Check. A negative decision is not an error:
// the shell just carries on without tmux.
type Decision struct {
	Run    bool
	Reason string // why Run is false
}

// Skip reasons.
const (
	ReasonInsideTmux     = "already inside tmux"
	ReasonNotInteractive = "not an interactive terminal"
	ReasonTermProgram    = "terminal program does not match"
	ReasonNoBinary       = "tmux binary not found"
)

// Check applies the guard rules in order and reports the first that fails.
func Check(in Input) Decision {
	switch {
	case in.TMUX != "":
		return Decision{Reason: ReasonInsideTmux}
	case !in.Interactive:
		return Decision{Reason: ReasonNotInteractive}
	case !in.Force && in.Expected != "" && in.TermProgram != in.Expected:
		return Decision{Reason: ReasonTermProgram}
	}

	lookPath := in.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	binary := in.Binary
	if binary == "" {
		binary = "tmux"
	}
	if _, err := lookPath(binary); err != nil {
		return Decision{Reason: ReasonNoBinary}
	}
	return Decision{Run: true}
}

// FromEnv builds an Input from the environment and the standard streams.
func FromEnv(expected, binary string, force bool) Input {
	return Input{
		TMUX:        os.Getenv("TMUX"),
		TermProgram: os.Getenv("TERM_PROGRAM"),
		Expected:    expected,
		Interactive: isTerminal(os.Stdin) && isTerminal(os.Stdout),
		Force:       force,
		Binary:      binary,
		LookPath:    exec.LookPath,
	}
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
