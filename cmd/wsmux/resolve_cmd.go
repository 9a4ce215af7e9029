package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/wsmux/internal/config"
	"github.com/raphi011/wsmux/internal/log"
	"github.com/raphi011/wsmux/internal/output"
	"github.com/raphi011/wsmux/internal/workspace"
)

func newResolveCmd() *cobra.Command {
	var noHooks bool

	cmd := &cobra.Command{
		Use:     "resolve [path]",
		Short:   "Find or create the window for a workspace",
		GroupID: GroupCore,
		Args:    cobra.MaximumNArgs(1),
		Long: `Find or create the tmux window for a workspace without attaching.

Without a path, the workspace is taken from the configured workspace
variables or the current directory. Prints the window id, the window
name and whether it was created, separated by tabs.`,
		Example: `  wsmux resolve                 # current workspace
  wsmux resolve ~/src/app       # a specific directory
  wsmux resolve | cut -f1       # just the window id`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			out := output.FromContext(ctx)
			l := log.FromContext(ctx)

			var arg string
			if len(args) == 1 {
				arg = args[0]
			}
			path := workspacePath(ctx, cfg, arg)
			eff := effectiveConfig(ctx, cfg, path)

			res, err := newResolver(eff, newClient(eff)).Resolve(ctx, eff.Session, path)
			if err != nil {
				return err
			}
			l.Debug("resolved", "path", path, "window", res.Window.ID, "created", res.Created)

			if !noHooks {
				runWindowHooks(ctx, eff, res, path, "", false)
			}

			out.Row(res.Window.ID, res.Window.Name, resolveState(res))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noHooks, "no-hooks", false, "Do not run create hooks")

	return cmd
}

func resolveState(res workspace.Result) string {
	if res.Created {
		return "created"
	}
	return "existing"
}
