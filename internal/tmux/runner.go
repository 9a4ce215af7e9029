package tmux

import (
	"context"

	"github.com/raphi011/wsmux/internal/cmd"
)

// Runner executes one tmux invocation and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs tmux as a subprocess.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	out, err := cmd.OutputContext(ctx, "", name, args...)
	return string(out), err
}
