package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/wsmux/internal/config"
	"github.com/raphi011/wsmux/internal/hooks"
	"github.com/raphi011/wsmux/internal/log"
	"github.com/raphi011/wsmux/internal/output"
	"github.com/raphi011/wsmux/internal/workspace"
)

func newHookCmd() *cobra.Command {
	var (
		env    []string
		dryRun bool
		path   string
	)

	cmd := &cobra.Command{
		Use:               "hook <name>...",
		Short:             "Run configured hooks",
		GroupID:           GroupCore,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeHookArg,
		Long: `Run one or more configured hooks by name.

Hooks are defined in config.toml and .wsmux.toml. Placeholders refer to
the workspace's existing window; when it has none, {window} and
{window-id} are empty. Unlike create and attach hooks, a failing hook
stops the run.`,
		Example: `  wsmux hook venv                   # run in the current workspace
  wsmux hook venv title             # several hooks in order
  wsmux hook notify -a msg=done     # set {msg}
  wsmux hook venv -d                # print the command instead`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			hookEnv, err := hooks.ParseEnv(env)
			if err != nil {
				return err
			}

			wsPath := workspacePath(ctx, cfg, path)
			eff := effectiveConfig(ctx, cfg, wsPath)

			matches, err := hooks.Lookup(eff.Hooks, args)
			if err != nil {
				return err
			}

			hctx := hooks.Context{
				Path:    wsPath,
				Session: eff.Session,
				Trigger: hooks.TriggerManual,
				Env:     hookEnv,
				DryRun:  dryRun,
			}
			tagged, err := newResolver(eff, newClient(eff)).List(ctx, eff.Session)
			if err != nil {
				l.Warnf("list windows: %v", err)
			}
			if w, ok := taggedWindow(tagged, wsPath); ok {
				hctx.Window = w.Window.Name
				hctx.WindowID = w.Window.ID
			}

			l.Debug("running hooks", "hooks", args, "path", wsPath, "dryRun", dryRun)
			runner := hooks.Runner{Stdout: out.Writer()}
			return runner.RunAll(ctx, matches, hctx)
		},
	}

	cmd.Flags().StringSliceVarP(&env, "arg", "a", nil, "Set hook variable KEY=VALUE")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Print command without executing")
	cmd.Flags().StringVarP(&path, "path", "p", "", "Workspace to run in (default: current workspace)")
	cmd.RegisterFlagCompletionFunc("arg", cobra.NoFileCompletions)

	return cmd
}

// taggedWindow returns the first window tagged with path, the one
// connect would attach to.
func taggedWindow(tagged []workspace.Tagged, path string) (workspace.Tagged, bool) {
	for _, t := range tagged {
		if t.Tagged && t.Workspace == path {
			return t, true
		}
	}
	return workspace.Tagged{}, false
}

// completeHookArg completes hook names from the effective config.
func completeHookArg(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	eff := effectiveConfig(ctx, cfg, workspacePath(ctx, cfg, ""))

	var names []string
	for name, hook := range eff.Hooks.Hooks {
		if hook.IsEnabled() && strings.HasPrefix(name, toComplete) {
			names = append(names, name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
