// Package workspace maps workspace paths to tmux windows.
//
// Each window created by the resolver carries the workspace path in a
// window user option. Resolution is a linear scan over the base session's
// windows in server order; the first window whose option equals the path
// exactly wins. Nothing is stored outside tmux.
package workspace

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	werrors "github.com/raphi011/wsmux/internal/errors"
	"github.com/raphi011/wsmux/internal/log"
	"github.com/raphi011/wsmux/internal/shell"
	"github.com/raphi011/wsmux/internal/slug"
	"github.com/raphi011/wsmux/internal/tmux"
)

// DefaultOptionKey is the window user option holding the workspace path.
const DefaultOptionKey = "@wsmux_workspace"

// Mux is the part of the tmux client the resolver needs.
type Mux interface {
	SessionExists(ctx context.Context, name string) (bool, error)
	CreateSession(ctx context.Context, name, startDir, windowName string) (tmux.Window, error)
	CreateWindow(ctx context.Context, session, name, startDir string) (tmux.Window, error)
	ListWindows(ctx context.Context, session string) ([]tmux.Window, error)
	WindowOption(ctx context.Context, session string, w tmux.Window, key string) (string, bool, error)
	SetWindowOption(ctx context.Context, session string, w tmux.Window, key, value string) error
	SendLiteral(ctx context.Context, session string, w tmux.Window, text string) error
}

// Locker serializes resolution across processes.
type Locker interface {
	Lock() error
	Unlock() error
}

// Options configure a Resolver.
type Options struct {
	// OptionKey is the window user option; empty means DefaultOptionKey.
	OptionKey string
	// Bootstrap types a cd into newly created windows.
	Bootstrap bool
	// Lock, when set, returns the lock held around check-and-create for a
	// base session. Without it, two terminals racing on one workspace may
	// both create a window.
	Lock func(session string) Locker
}

// Result is the outcome of Resolve.
type Result struct {
	Window  tmux.Window
	Created bool
}

// Resolver finds or creates the window for a workspace.
type Resolver struct {
	mux       Mux
	optionKey string
	bootstrap bool
	lock      func(string) Locker
}

// NewResolver creates a Resolver over mux.
func NewResolver(mux Mux, opts Options) *Resolver {
	key := opts.OptionKey
	if key == "" {
		key = DefaultOptionKey
	}
	return &Resolver{
		mux:       mux,
		optionKey: key,
		bootstrap: opts.Bootstrap,
		lock:      opts.Lock,
	}
}

// WindowName returns the preferred window name for a workspace path.
func WindowName(path string) string {
	if path == "" {
		return slug.Fallback
	}
	return slug.Sanitize(filepath.Base(path))
}

// Resolve returns the window for path in the base session, creating the
// session and window on first use. Created windows are tagged with path;
// a failed tag is logged and otherwise ignored.
func (r *Resolver) Resolve(ctx context.Context, base, path string) (Result, error) {
	res, err := r.resolveLocked(ctx, base, path)
	if err != nil {
		return Result{}, err
	}
	if res.Created && r.bootstrap && path != "" {
		if err := r.mux.SendLiteral(ctx, base, res.Window, shell.CdCommand(path)); err != nil {
			log.FromContext(ctx).Warnf("cd into %s in window %s: %v", path, res.Window.Name, err)
		}
	}
	return res, nil
}

func (r *Resolver) resolveLocked(ctx context.Context, base, path string) (Result, error) {
	if r.lock != nil {
		l := r.lock(base)
		if err := l.Lock(); err != nil {
			return Result{}, werrors.E(werrors.Op("workspace.Resolve"), werrors.KindLock, err)
		}
		defer l.Unlock()
	}
	return r.resolve(ctx, base, path)
}

func (r *Resolver) resolve(ctx context.Context, base, path string) (Result, error) {
	logger := log.FromContext(ctx)
	name := WindowName(path)

	exists, err := r.mux.SessionExists(ctx, base)
	if err != nil {
		return Result{}, err
	}
	if !exists {
		w, err := r.mux.CreateSession(ctx, base, path, name)
		if err == nil {
			logger.Debug("created session", "session", base, "window", w.ID, "name", w.Name)
			r.tag(ctx, base, w, path)
			return Result{Window: w, Created: true}, nil
		}
		// Another terminal may have started the session since the check.
		if exists, _ := r.mux.SessionExists(ctx, base); !exists {
			return Result{}, err
		}
		logger.Debug("session appeared concurrently", "session", base, "error", err)
	}

	windows, err := r.mux.ListWindows(ctx, base)
	if err != nil {
		return Result{}, err
	}
	if w, ok, err := r.find(ctx, base, windows, path); err != nil {
		return Result{}, err
	} else if ok {
		logger.Debug("found window", "session", base, "window", w.ID, "name", w.Name)
		return Result{Window: w}, nil
	}

	w, err := r.mux.CreateWindow(ctx, base, UniqueName(name, windows), path)
	if err != nil {
		return Result{}, err
	}
	logger.Debug("created window", "session", base, "window", w.ID, "name", w.Name)
	r.tag(ctx, base, w, path)
	return Result{Window: w, Created: true}, nil
}

// find returns the first window tagged with path. Windows that vanish
// mid-scan read as untagged.
func (r *Resolver) find(ctx context.Context, base string, windows []tmux.Window, path string) (tmux.Window, bool, error) {
	for _, w := range windows {
		v, ok, err := r.mux.WindowOption(ctx, base, w, r.optionKey)
		if err != nil {
			return tmux.Window{}, false, err
		}
		if ok && v == path {
			return w, true, nil
		}
	}
	return tmux.Window{}, false, nil
}

// tag records path on w.
func (r *Resolver) tag(ctx context.Context, base string, w tmux.Window, path string) {
	if err := r.mux.SetWindowOption(ctx, base, w, r.optionKey, path); err != nil {
		log.FromContext(ctx).Warnf("tag window %s with %s: %v", w.Name, path, err)
	}
}

// UniqueName returns name, or name-2, name-3, ... whichever is first not
// used by any of windows.
func UniqueName(name string, windows []tmux.Window) string {
	taken := make(map[string]bool, len(windows))
	for _, w := range windows {
		taken[w.Name] = true
	}
	if !taken[name] {
		return name
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", name, n)
		if !taken[candidate] {
			return candidate
		}
	}
}

// listConcurrency bounds the option reads List has in flight.
const listConcurrency = 8

// Tagged pairs a window with its workspace option, for listings.
type Tagged struct {
	Window    tmux.Window
	Workspace string
	Tagged    bool // false when the window carries no workspace option
}

// List returns every window of the base session with its workspace tag.
// A missing session yields no windows.
func (r *Resolver) List(ctx context.Context, base string) ([]Tagged, error) {
	exists, err := r.mux.SessionExists(ctx, base)
	if err != nil || !exists {
		return nil, err
	}
	windows, err := r.mux.ListWindows(ctx, base)
	if err != nil {
		return nil, err
	}

	out := make([]Tagged, len(windows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)
	for i, w := range windows {
		g.Go(func() error {
			v, ok, err := r.mux.WindowOption(gctx, base, w, r.optionKey)
			if err != nil {
				return err
			}
			out[i] = Tagged{Window: w, Workspace: v, Tagged: ok}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Duplicates returns the workspaces tagged on more than one window, each
// with its windows in server order. These are left behind by terminals
// that raced on the same workspace.
func Duplicates(tagged []Tagged) map[string][]tmux.Window {
	byPath := map[string][]tmux.Window{}
	for _, t := range tagged {
		if t.Tagged {
			byPath[t.Workspace] = append(byPath[t.Workspace], t.Window)
		}
	}
	for path, ws := range byPath {
		if len(ws) < 2 {
			delete(byPath, path)
		}
	}
	return byPath
}
