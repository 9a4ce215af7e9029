package hooks

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/raphi011/wsmux/internal/config"
	"github.com/raphi011/wsmux/internal/log"
	"github.com/raphi011/wsmux/internal/shell"
)

// Trigger identifies what caused a hook to run.
type Trigger string

const (
	TriggerCreate Trigger = config.TriggerCreate
	TriggerAttach Trigger = config.TriggerAttach
	TriggerManual Trigger = "manual"
)

// Context holds the values for placeholder substitution
type Context struct {
	Path     string            // workspace path
	Window   string            // window name
	WindowID string            // tmux window id
	Session  string            // base session
	Client   string            // client session of this terminal
	Trigger  Trigger           // what triggered the hook
	Env      map[string]string // custom variables from --arg key=value
	DryRun   bool              // if true, print command instead of executing
}

// Match is a hook selected to run.
type Match struct {
	Name string
	Hook config.Hook
}

// Select returns the hooks whose "on" list names trigger or "all", sorted
// by name. Disabled hooks and hooks without "on" never match.
func Select(cfg config.HooksConfig, trigger Trigger) []Match {
	var matches []Match
	for name, hook := range cfg.Hooks {
		if hook.IsEnabled() && matchesTrigger(hook, trigger) {
			matches = append(matches, Match{Name: name, Hook: hook})
		}
	}
	slices.SortFunc(matches, func(a, b Match) int { return strings.Compare(a.Name, b.Name) })
	return matches
}

// Lookup returns the named hooks for a manual run. Unknown names are an
// error listing what is available.
func Lookup(cfg config.HooksConfig, names []string) ([]Match, error) {
	var matches []Match
	var missing []string
	for _, name := range names {
		hook, ok := cfg.Hooks[name]
		if !ok || !hook.IsEnabled() {
			missing = append(missing, name)
			continue
		}
		matches = append(matches, Match{Name: name, Hook: hook})
	}
	if len(missing) > 0 {
		var available []string
		for name, hook := range cfg.Hooks {
			if hook.IsEnabled() {
				available = append(available, name)
			}
		}
		slices.Sort(available)
		if len(available) == 0 {
			return nil, fmt.Errorf("unknown hook %s (no hooks configured)", strings.Join(missing, ", "))
		}
		return nil, fmt.Errorf("unknown hook %s (available: %s)", strings.Join(missing, ", "), strings.Join(available, ", "))
	}
	return matches, nil
}

func matchesTrigger(hook config.Hook, trigger Trigger) bool {
	for _, on := range hook.On {
		if on == config.TriggerAll || on == string(trigger) {
			return true
		}
	}
	return false
}

// Runner executes hooks.
type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	// Shell is the interpreter, run as Shell -c COMMAND. Empty means sh.
	Shell string
}

// RunAll runs every match in order and stops at the first failure.
func (r Runner) RunAll(ctx context.Context, matches []Match, hctx Context) error {
	for _, m := range matches {
		if err := r.run(ctx, m, hctx); err != nil {
			return fmt.Errorf("hook %q failed: %w", m.Name, err)
		}
	}
	return nil
}

// RunAllNonFatal runs every match, logging failures as warnings.
// It returns the number of hooks that failed.
func (r Runner) RunAllNonFatal(ctx context.Context, matches []Match, hctx Context) int {
	failed := 0
	for _, m := range matches {
		if err := r.run(ctx, m, hctx); err != nil {
			log.FromContext(ctx).Warnf("hook %q failed: %v", m.Name, err)
			failed++
		}
	}
	return failed
}

func (r Runner) run(ctx context.Context, m Match, hctx Context) error {
	l := log.FromContext(ctx)
	command := SubstitutePlaceholders(m.Hook.Command, hctx)

	if hctx.DryRun {
		fmt.Fprintf(r.stdout(), "[dry-run] %s: %s\n", m.Name, command)
		return nil
	}

	l.Printf("Running hook '%s'...\n", m.Name)

	sh := r.Shell
	if sh == "" {
		sh = "sh"
	}
	c := exec.CommandContext(ctx, sh, "-c", command)
	if info, err := os.Stat(hctx.Path); err == nil && info.IsDir() {
		c.Dir = hctx.Path
	}
	c.Env = append(os.Environ(), hookEnv(hctx)...)
	c.Stdout = r.stdout()
	c.Stderr = r.stderr()

	done := l.Command(c.Dir, sh, "-c", command)
	start := time.Now()
	err := c.Run()
	done(time.Since(start))

	if err != nil {
		return err
	}
	if m.Hook.Description != "" {
		l.Printf("  ✓ %s\n", m.Hook.Description)
	}
	return nil
}

func (r Runner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r Runner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}

// hookEnv exposes the placeholders to the hook as WSMUX_* variables.
func hookEnv(hctx Context) []string {
	return []string{
		"WSMUX_PATH=" + hctx.Path,
		"WSMUX_WINDOW=" + hctx.Window,
		"WSMUX_WINDOW_ID=" + hctx.WindowID,
		"WSMUX_SESSION=" + hctx.Session,
		"WSMUX_CLIENT=" + hctx.Client,
		"WSMUX_TRIGGER=" + string(hctx.Trigger),
	}
}

// ParseEnv parses a slice of "key=value" strings into a map.
// Returns an error if any entry doesn't contain "=".
func ParseEnv(envSlice []string) (map[string]string, error) {
	result := make(map[string]string)
	for _, e := range envSlice {
		key, value, ok := strings.Cut(e, "=")
		if !ok {
			return nil, fmt.Errorf("invalid arg format %q: expected KEY=VALUE", e)
		}
		if key == "" {
			return nil, fmt.Errorf("invalid arg format %q: key cannot be empty", e)
		}
		result[key] = value
	}
	return result, nil
}

// placeholderRegex matches {name}, {name:raw}, or {name:-default}.
var placeholderRegex = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_-]*)(?:(:raw)|:-([^}]*))?\}`)

// SubstitutePlaceholders replaces {placeholder} with shell-quoted values
// from hctx. Built-in names win over --arg variables. Substituted values
// are not scanned again.
func SubstitutePlaceholders(command string, hctx Context) string {
	static := map[string]string{
		"path":      hctx.Path,
		"window":    hctx.Window,
		"window-id": hctx.WindowID,
		"session":   hctx.Session,
		"client":    hctx.Client,
		"trigger":   string(hctx.Trigger),
	}

	return placeholderRegex.ReplaceAllStringFunc(command, func(match string) string {
		sub := placeholderRegex.FindStringSubmatch(match)
		key := sub[1]
		isRaw := sub[2] == ":raw"
		defaultVal := sub[3]

		val, ok := static[key]
		if !ok {
			val, ok = hctx.Env[key]
		}
		if !ok {
			val = defaultVal
		}
		if isRaw {
			return val
		}
		return shell.Quote(val)
	})
}
