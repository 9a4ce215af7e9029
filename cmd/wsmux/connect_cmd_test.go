package main

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/raphi011/wsmux/internal/attach"
	"github.com/raphi011/wsmux/internal/config"
	"github.com/raphi011/wsmux/internal/guard"
	"github.com/raphi011/wsmux/internal/workspace"
)

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	var ee *exitError
	if !errors.As(err, &ee) {
		t.Fatalf("error %v is not an exit error", err)
	}
	return ee.code
}

// allowConnect makes the guard pass.
func allowConnect() {
	guardInput = func(expected, binary string, force bool) guard.Input {
		return guard.Input{
			Interactive: true,
			Expected:    expected,
			TermProgram: expected,
			Binary:      binary,
			LookPath:    func(string) (string, error) { return "/usr/bin/tmux", nil },
		}
	}
}

type execCall struct {
	binary string
	args   []string
}

func recordExec(calls *[]execCall) {
	execTmux = func(binary string, args []string) error {
		*calls = append(*calls, execCall{binary: binary, args: args})
		return nil
	}
}

func TestConnect_GuardSkip(t *testing.T) {
	env := newTestEnv(t, nil, t.TempDir())

	err := env.run(newConnectCmd())
	if code := exitCode(t, err); code != exitSkipped {
		t.Errorf("exit code = %d, want %d", code, exitSkipped)
	}
	if len(env.srv.Calls) != 0 {
		t.Errorf("tmux was called: %v", env.srv.Calls)
	}
	if env.stderr.Len() != 0 || env.stdout.Len() != 0 {
		t.Errorf("guard skip printed output: %q %q", env.stdout, env.stderr)
	}
}

func TestConnect_AttachesWorkspaceWindow(t *testing.T) {
	dir := mkWorkspace(t, "api")
	env := newTestEnv(t, nil, dir)
	allowConnect()
	var calls []execCall
	recordExec(&calls)

	if err := env.run(newConnectCmd()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	windows := env.srv.Windows("main")
	if len(windows) != 1 || windows[0][1] != "api" {
		t.Fatalf("windows = %v, want one window named api", windows)
	}
	id := windows[0][0]
	if v, _ := env.srv.Option(id, workspace.DefaultOptionKey); v != dir {
		t.Errorf("tag = %q, want %q", v, dir)
	}

	client := attach.ClientKey("main", os.Getpid())
	if got := env.srv.CurrentWindow(client); got != id {
		t.Errorf("client session shows %q, want %q", got, id)
	}
	if len(calls) != 1 {
		t.Fatalf("exec calls = %v, want 1", calls)
	}
	if calls[0].binary != "tmux" || !slices.Equal(calls[0].args, []string{"attach-session", "-t", "=" + client}) {
		t.Errorf("exec = %+v", calls[0])
	}
}

func TestConnect_WorkspaceFromEnv(t *testing.T) {
	dir := mkWorkspace(t, "frontend")
	env := newTestEnv(t, nil, t.TempDir())
	t.Setenv(config.DefaultWorkspaceEnv, dir)
	allowConnect()
	var calls []execCall
	recordExec(&calls)

	for range 2 {
		if err := env.run(newConnectCmd()); err != nil {
			t.Fatalf("connect: %v", err)
		}
	}

	if windows := env.srv.Windows("main"); len(windows) != 1 || windows[0][1] != "frontend" {
		t.Errorf("windows = %v, want a single frontend window", windows)
	}
	if len(calls) != 2 {
		t.Errorf("exec calls = %d, want 2", len(calls))
	}
}

func TestConnect_RunsHooks(t *testing.T) {
	dir := mkWorkspace(t, "app")
	logFile := filepath.Join(t.TempDir(), "hooks.log")

	cfg := config.Default()
	cfg.BootstrapCD = false
	cfg.Hooks = config.HooksConfig{Hooks: map[string]config.Hook{
		"record": {Command: "echo {trigger} {window} >> " + logFile, On: []string{"all"}},
	}}

	env := newTestEnv(t, &cfg, dir)
	allowConnect()
	var calls []execCall
	recordExec(&calls)

	for range 2 {
		if err := env.run(newConnectCmd()); err != nil {
			t.Fatalf("connect: %v", err)
		}
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("hooks did not run: %v", err)
	}
	if want := "create app\nattach app\nattach app\n"; string(data) != want {
		t.Errorf("hook log = %q, want %q", data, want)
	}
}

func TestConnect_Failures(t *testing.T) {
	t.Run("invalid config", func(t *testing.T) {
		env := newTestEnv(t, nil, t.TempDir())
		allowConnect()
		configErr = errors.New("config.Load: bad.toml: boom")

		err := env.run(newConnectCmd())
		if code := exitCode(t, err); code != exitFailure {
			t.Errorf("exit code = %d, want %d", code, exitFailure)
		}
		if len(env.srv.Calls) != 0 {
			t.Error("tmux was called with a broken config")
		}
	})

	t.Run("tmux fails", func(t *testing.T) {
		env := newTestEnv(t, nil, t.TempDir())
		allowConnect()
		env.srv.Fail["new-session"] = errors.New("server exited unexpectedly")

		err := env.run(newConnectCmd())
		if code := exitCode(t, err); code != exitFailure {
			t.Errorf("exit code = %d, want %d", code, exitFailure)
		}
		if !strings.Contains(err.Error(), "server exited unexpectedly") {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("exec fails", func(t *testing.T) {
		env := newTestEnv(t, nil, t.TempDir())
		allowConnect()
		execTmux = func(string, []string) error { return errors.New("exec format error") }

		err := env.run(newConnectCmd())
		if code := exitCode(t, err); code != exitFailure {
			t.Errorf("exit code = %d, want %d", code, exitFailure)
		}
	})
}
