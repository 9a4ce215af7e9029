package doctor

import (
	"context"
	"fmt"
	"io"

	"github.com/raphi011/wsmux/internal/config"
	"github.com/raphi011/wsmux/internal/tmux"
	"github.com/raphi011/wsmux/internal/ui/styles"
	"github.com/raphi011/wsmux/internal/workspace"
)

// Mux is the part of the tmux client doctor needs.
type Mux interface {
	Version(ctx context.Context) (string, error)
	ListSessions(ctx context.Context) ([]tmux.Session, error)
}

// Lister lists the windows of a base session with their workspace tags.
type Lister interface {
	List(ctx context.Context, base string) ([]workspace.Tagged, error)
}

// Input is what Run inspects.
type Input struct {
	Config     config.Config
	ConfigPath string
	ConfigErr  error // from loading ConfigPath
	Mux        Mux
	Windows    Lister
	RCFiles    []string // rc files that may hold the wsmux block
}

// Run performs every check and returns the results in order. It never
// modifies tmux or any file.
func Run(ctx context.Context, in Input) Report {
	var r Report

	checkConfig(&r, in)
	if !checkTmux(ctx, &r, in.Mux) {
		checkRC(&r, in.RCFiles)
		return r
	}

	base := in.Config.Session
	sessions, err := in.Mux.ListSessions(ctx)
	if err != nil {
		r.add("session", StatusFail, err.Error())
		checkRC(&r, in.RCFiles)
		return r
	}
	if checkSession(&r, base, sessions) {
		checkDuplicates(ctx, &r, in.Windows, base)
	}
	checkClients(&r, base, sessions)
	checkRC(&r, in.RCFiles)
	return r
}

// Print writes the report, one line per check, followed by a summary.
func Print(w io.Writer, r Report) {
	sym := styles.CurrentSymbols()
	for _, res := range r.Results {
		var mark string
		switch res.Status {
		case StatusOK:
			mark = styles.SuccessStyle.Render(sym.OK)
		case StatusInfo:
			mark = styles.MutedStyle.Render(sym.Info)
		case StatusWarn:
			mark = styles.WarningStyle.Render(sym.Warn)
		case StatusFail:
			mark = styles.ErrorStyle.Render(sym.Fail)
		}
		fmt.Fprintf(w, "  %s %s: %s\n", mark, res.Name, res.Detail)
	}

	fmt.Fprintln(w)
	switch failed, warned := r.Failed(), r.Warnings(); {
	case failed > 0:
		fmt.Fprintf(w, "Found %d problem(s) and %d warning(s)\n", failed, warned)
	case warned > 0:
		fmt.Fprintf(w, "Found %d warning(s)\n", warned)
	default:
		fmt.Fprintln(w, "All checks passed")
	}
}
