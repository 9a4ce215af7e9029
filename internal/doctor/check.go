package doctor

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/raphi011/wsmux/internal/attach"
	"github.com/raphi011/wsmux/internal/rcblock"
	"github.com/raphi011/wsmux/internal/shell"
	"github.com/raphi011/wsmux/internal/tmux"
	"github.com/raphi011/wsmux/internal/workspace"
)

func checkConfig(r *Report, in Input) {
	switch {
	case in.ConfigErr != nil:
		r.add("config", StatusFail, in.ConfigErr.Error())
	case in.ConfigPath == "":
		r.add("config", StatusInfo, "using defaults")
	default:
		r.add("config", StatusOK, in.ConfigPath)
	}
}

// checkTmux reports whether tmux is usable.
func checkTmux(ctx context.Context, r *Report, mux Mux) bool {
	version, err := mux.Version(ctx)
	if err != nil {
		r.add("tmux", StatusFail, err.Error())
		return false
	}
	r.add("tmux", StatusOK, version)
	return true
}

// checkSession reports whether the base session is running.
func checkSession(r *Report, base string, sessions []tmux.Session) bool {
	i := slices.IndexFunc(sessions, func(s tmux.Session) bool { return s.Name == base })
	if i < 0 {
		r.add("session", StatusInfo, fmt.Sprintf("%s is not running; the next connect creates it", base))
		return false
	}
	r.add("session", StatusOK, fmt.Sprintf("%s (%d windows)", base, sessions[i].Windows))
	return true
}

func checkDuplicates(ctx context.Context, r *Report, windows Lister, base string) {
	tagged, err := windows.List(ctx, base)
	if err != nil {
		r.add("workspaces", StatusFail, err.Error())
		return
	}

	n := 0
	for _, t := range tagged {
		if t.Tagged {
			n++
		}
	}

	dups := workspace.Duplicates(tagged)
	if len(dups) == 0 {
		r.add("workspaces", StatusOK, fmt.Sprintf("%d tagged windows, no duplicates", n))
		return
	}

	paths := make([]string, 0, len(dups))
	for path := range dups {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	for _, path := range paths {
		ids := make([]string, len(dups[path]))
		for i, w := range dups[path] {
			ids[i] = w.ID
		}
		r.add("duplicate", StatusWarn, fmt.Sprintf("%s is tagged on %s; connect uses %s",
			path, strings.Join(ids, ", "), ids[0]))
	}
}

func checkClients(r *Report, base string, sessions []tmux.Session) {
	prefix := attach.ClientPrefix(base)
	var total, attached int
	for _, s := range sessions {
		if !strings.HasPrefix(s.Name, prefix) {
			continue
		}
		total++
		if s.Attached > 0 {
			attached++
		}
	}
	r.add("clients", StatusInfo, fmt.Sprintf("%d client sessions, %d attached", total, attached))
}

func checkRC(r *Report, files []string) {
	var installed []string
	for _, f := range files {
		ok, err := rcblock.Contains(f, shell.StartMarker)
		if err != nil {
			r.add("shell", StatusWarn, err.Error())
			continue
		}
		if ok {
			installed = append(installed, f)
		}
	}
	if len(installed) == 0 {
		r.add("shell", StatusWarn, "rc block not installed (run 'wsmux install')")
		return
	}
	r.add("shell", StatusOK, "installed in "+strings.Join(installed, ", "))
}
