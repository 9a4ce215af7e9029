// Package attach connects a terminal to a workspace window through a
// per-terminal client session grouped with the base session.
//
// Grouped sessions share the base session's windows but each keeps its own
// current window, so two terminals can show different workspaces at once.
// Client sessions are never cleaned up.
package attach

import (
	"context"
	"os"
	"os/exec"
	"strconv"

	"golang.org/x/sys/unix"

	werrors "github.com/raphi011/wsmux/internal/errors"
	"github.com/raphi011/wsmux/internal/log"
	"github.com/raphi011/wsmux/internal/tmux"
)

// Mux is the part of the tmux client the attacher needs.
type Mux interface {
	SessionExists(ctx context.Context, name string) (bool, error)
	CreateGroupedSession(ctx context.Context, name, target string) error
	SelectWindow(ctx context.Context, session string, w tmux.Window) error
	AttachArgs(session string) []string
	Binary() string
}

// ExecFunc replaces the current process with binary run with args.
// It only returns on failure.
type ExecFunc func(binary string, args []string) error

// ClientPrefix is the name prefix shared by all client sessions of base.
func ClientPrefix(base string) string {
	return base + "-client-"
}

// ClientKey returns the client session name for a terminal process.
func ClientKey(base string, pid int) string {
	return ClientPrefix(base) + strconv.Itoa(pid)
}

// Attacher attaches terminals to windows.
type Attacher struct {
	mux  Mux
	pid  int
	exec ExecFunc
}

// New returns an Attacher for the current process. A nil execFn means
// Exec.
func New(mux Mux, execFn ExecFunc) *Attacher {
	return NewForPID(mux, os.Getpid(), execFn)
}

// NewForPID returns an Attacher that names its client session after pid.
func NewForPID(mux Mux, pid int, execFn ExecFunc) *Attacher {
	if execFn == nil {
		execFn = Exec
	}
	return &Attacher{mux: mux, pid: pid, exec: execFn}
}

// ClientSession returns the client session name this Attacher uses for base.
func (a *Attacher) ClientSession(base string) string {
	return ClientKey(base, a.pid)
}

// Prepare makes sure the client session exists and shows w, without
// attaching. It returns the client session name.
func (a *Attacher) Prepare(ctx context.Context, base string, w tmux.Window) (string, error) {
	logger := log.FromContext(ctx)
	key := a.ClientSession(base)

	exists, err := a.mux.SessionExists(ctx, key)
	if err != nil {
		return "", err
	}
	if !exists {
		if err := a.mux.CreateGroupedSession(ctx, key, base); err != nil {
			return "", err
		}
		logger.Debug("created client session", "session", key, "group", base)
	}

	if err := a.mux.SelectWindow(ctx, key, w); err != nil {
		return "", err
	}
	return key, nil
}

// AttachTerminal shows w in this terminal's client session and replaces
// the process with `tmux attach-session`. On success it does not return.
func (a *Attacher) AttachTerminal(ctx context.Context, base string, w tmux.Window) error {
	key, err := a.Prepare(ctx, base, w)
	if err != nil {
		return err
	}
	log.FromContext(ctx).Debug("attaching", "session", key, "window", w.ID)

	if err := a.exec(a.mux.Binary(), a.mux.AttachArgs(key)); err != nil {
		return werrors.E(werrors.Op("attach.AttachTerminal"), werrors.KindExternalTool,
			"session "+key, err)
	}
	return nil
}

// Exec looks up binary on PATH and execs it with args, keeping the
// environment.
func Exec(binary string, args []string) error {
	path, err := exec.LookPath(binary)
	if err != nil {
		return err
	}
	argv := append([]string{binary}, args...)
	return unix.Exec(path, argv, os.Environ())
}
