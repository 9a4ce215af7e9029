package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/raphi011/wsmux/internal/config"
	"github.com/raphi011/wsmux/internal/guard"
	"github.com/raphi011/wsmux/internal/log"
	"github.com/raphi011/wsmux/internal/output"
	"github.com/raphi011/wsmux/internal/tmux/tmuxtest"
)

// testEnv holds the captured streams of a command run.
type testEnv struct {
	ctx    context.Context
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	srv    *tmuxtest.Server
}

// newTestEnv wires a context with cfg and workDir, captures output and
// points every tmux invocation at a fresh fake server. Tests using it
// must not run in parallel: the seams are package variables.
func newTestEnv(t *testing.T, cfg *config.Config, workDir string) *testEnv {
	t.Helper()

	if cfg == nil {
		c := config.Default()
		cfg = &c
	}
	t.Setenv(config.DefaultWorkspaceEnv, "")

	env := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		srv:    tmuxtest.New(),
	}

	ctx := context.Background()
	ctx = config.WithConfig(ctx, cfg)
	ctx = config.WithWorkDir(ctx, workDir)
	ctx = output.WithPrinter(ctx, env.stdout)
	ctx = log.WithLogger(ctx, log.New(env.stderr, false, false))
	env.ctx = ctx

	oldRunner, oldExec, oldGuard, oldTTY := tmuxRunner, execTmux, guardInput, stdinIsTerminal
	oldErr, oldPath := configErr, configPath
	t.Cleanup(func() {
		tmuxRunner, execTmux, guardInput, stdinIsTerminal = oldRunner, oldExec, oldGuard, oldTTY
		configErr, configPath = oldErr, oldPath
	})

	tmuxRunner = env.srv
	execTmux = func(string, []string) error {
		t.Error("unexpected exec of tmux")
		return nil
	}
	guardInput = func(expected, binary string, force bool) guard.Input {
		return guard.Input{TMUX: "/tmp/tmux-1000/default,1,0"}
	}
	stdinIsTerminal = func() bool { return false }
	configErr, configPath = nil, ""

	return env
}

// run executes cmd with args in env's context.
func (e *testEnv) run(cmd *cobra.Command, args ...string) error {
	if args == nil {
		args = []string{}
	}
	cmd.SetContext(e.ctx)
	cmd.SetArgs(args)
	cmd.SetOut(e.stdout)
	cmd.SetErr(e.stderr)
	return cmd.Execute()
}

// mkWorkspace creates dir/name and returns its path.
func mkWorkspace(t *testing.T, name string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	return dir
}
