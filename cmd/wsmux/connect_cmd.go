package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/raphi011/wsmux/internal/attach"
	"github.com/raphi011/wsmux/internal/config"
	"github.com/raphi011/wsmux/internal/guard"
	"github.com/raphi011/wsmux/internal/hooks"
	"github.com/raphi011/wsmux/internal/log"
	"github.com/raphi011/wsmux/internal/workspace"
)

func newConnectCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "connect",
		Short:   "Attach this terminal to its workspace window",
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Long: `Attach this terminal to the tmux window of its workspace.

This is what the shell rc block runs. It finds or creates the window
tagged with the workspace path in the base session, runs create and
attach hooks, then replaces itself with 'tmux attach-session' on a client
session private to this terminal.

It does nothing (exit status 3) when already inside tmux, when stdin or
stdout is not a terminal, when $TERM_PROGRAM does not match
terminal_program, or when tmux is not installed. Any other failure exits
with status 1 after a single diagnostic line, so the shell carries on.

Output is suppressed unless --verbose is given.`,
		Example: `  wsmux connect && exit      # what the rc block runs
  wsmux connect --force -v   # try it from any terminal`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !verbose {
				ctx = log.WithLogger(ctx, log.New(os.Stderr, false, true))
			}
			return runConnect(ctx, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the terminal program check")

	return cmd
}

func runConnect(ctx context.Context, force bool) error {
	if configErr != nil {
		return &exitError{code: exitFailure, err: configErr}
	}
	cfg := config.FromContext(ctx)
	l := log.FromContext(ctx)

	decision := guard.Check(guardInput(cfg.TerminalProgram, cfg.Tmux.Binary, force))
	if !decision.Run {
		l.Debug("not connecting", "reason", decision.Reason)
		return &exitError{code: exitSkipped}
	}

	path := workspacePath(ctx, cfg, "")
	eff := effectiveConfig(ctx, cfg, path)
	client := newClient(eff)

	res, err := newResolver(eff, client).Resolve(ctx, eff.Session, path)
	if err != nil {
		return &exitError{code: exitFailure, err: err}
	}

	attacher := attach.New(client, execTmux)
	runWindowHooks(ctx, eff, res, path, attacher.ClientSession(eff.Session), true)

	if err := attacher.AttachTerminal(ctx, eff.Session, res.Window); err != nil {
		return &exitError{code: exitFailure, err: err}
	}
	return nil
}

// runWindowHooks runs the create hooks for a new window and, when
// attaching, the attach hooks. Failures are warnings.
func runWindowHooks(ctx context.Context, cfg *config.Config, res workspace.Result, path, client string, attaching bool) {
	hctx := hooks.Context{
		Path:     path,
		Window:   res.Window.Name,
		WindowID: res.Window.ID,
		Session:  cfg.Session,
		Client:   client,
	}
	runner := hooks.Runner{}

	if res.Created {
		hctx.Trigger = hooks.TriggerCreate
		runner.RunAllNonFatal(ctx, hooks.Select(cfg.Hooks, hooks.TriggerCreate), hctx)
	}
	if attaching {
		hctx.Trigger = hooks.TriggerAttach
		runner.RunAllNonFatal(ctx, hooks.Select(cfg.Hooks, hooks.TriggerAttach), hctx)
	}
}
