package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/wsmux/internal/config"
	"github.com/raphi011/wsmux/internal/log"
	"github.com/raphi011/wsmux/internal/output"
	"github.com/raphi011/wsmux/internal/storage"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage wsmux configuration.

Global config: ~/.config/wsmux/config.toml ($WSMUX_CONFIG overrides)
Local config:  .wsmux.toml (in the workspace root)`,
		Example: `  wsmux config init          # Create default global config
  wsmux config init --local  # Create .wsmux.toml in this workspace
  wsmux config show          # Show effective config
  wsmux config hooks         # List available hooks
  wsmux config path          # Print the global config location`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigHooksCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
		local  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Long: `Create default config file.

Without flags, creates the global config. With --local, creates
.wsmux.toml in the current workspace.`,
		Example: `  wsmux config init           # Create global config
  wsmux config init --local   # Create local workspace config
  wsmux config init -f        # Overwrite existing config
  wsmux config init -s        # Print config to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			if local {
				if stdout {
					out.Print(config.DefaultLocalConfig())
					return nil
				}
				cfg := config.FromContext(ctx)
				path := filepath.Join(workspacePath(ctx, cfg, ""), config.LocalConfigFileName)
				if !force {
					if _, err := os.Stat(path); err == nil {
						return fmt.Errorf("local config already exists: %s (use -f to overwrite)", path)
					}
				}
				if err := storage.WriteFile(path, []byte(config.DefaultLocalConfig()), 0o644); err != nil {
					return err
				}
				l.Printf("Created local config: %s\n", path)
				return nil
			}

			if stdout {
				out.Print(config.DefaultConfig())
				return nil
			}
			path, err := config.Init(force)
			if err != nil {
				return fmt.Errorf("%w (use -f to overwrite)", err)
			}
			l.Printf("Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")
	cmd.Flags().BoolVar(&local, "local", false, "Create per-workspace .wsmux.toml instead of global config")

	return cmd
}

// effectiveWithLocal loads the current workspace's .wsmux.toml and merges
// it into cfg. local is nil when there is none.
func effectiveWithLocal(cmd *cobra.Command) (eff *config.Config, local *config.LocalConfig, localPath string) {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	dir := workspacePath(ctx, cfg, "")
	localPath = filepath.Join(dir, config.LocalConfigFileName)

	local, err := config.LoadLocal(dir)
	if err != nil {
		log.FromContext(ctx).Warnf("%v (using global config)", err)
	}
	return config.MergeLocal(cfg, local), local, localPath
}

func newConfigShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		Long: `Show effective configuration for the current workspace.

Settings overridden by the workspace's .wsmux.toml are marked (local).`,
		Example: `  wsmux config show          # Show config
  wsmux config show --json   # Output as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			eff, local, localPath := effectiveWithLocal(cmd)

			if jsonOutput {
				enc := json.NewEncoder(out.Writer())
				enc.SetIndent("", "  ")
				return enc.Encode(eff)
			}

			if configPath != "" {
				out.Printf("Global config: %s\n", configPath)
			} else {
				out.Printf("Global config: (none, using defaults)\n")
			}
			if local != nil {
				out.Printf("Local config:  %s\n", localPath)
			} else {
				out.Printf("Local config:  (none)\n")
			}
			out.Println()

			source := func(isLocal bool) string {
				if isLocal {
					return " (local)"
				}
				return ""
			}

			terminal := eff.TerminalProgram
			if terminal == "" {
				terminal = "(any)"
			}
			out.Printf("session: %s\n", eff.Session)
			out.Printf("terminal_program: %s\n", terminal)
			out.Printf("workspace_env: %s\n", strings.Join(eff.WorkspaceEnv, ", "))
			out.Printf("window_option: %s\n", eff.WindowOption)
			out.Printf("bootstrap_cd: %v%s\n", eff.BootstrapCD, source(local != nil && local.BootstrapCD != nil))
			out.Printf("tmux.binary: %s\n", eff.Tmux.Binary)
			if eff.Tmux.SocketPath != "" {
				out.Printf("tmux.socket_path: %s\n", eff.Tmux.SocketPath)
			} else if eff.Tmux.SocketName != "" {
				out.Printf("tmux.socket_name: %s\n", eff.Tmux.SocketName)
			}
			if eff.Tmux.ConfigFile != "" {
				out.Printf("tmux.config_file: %s\n", eff.Tmux.ConfigFile)
			}
			out.Printf("lock.enabled: %v\n", eff.Lock.Enabled)
			out.Printf("hooks: %d configured\n", len(eff.Hooks.Hooks))

			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newConfigHooksCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "List available hooks",
		Args:  cobra.NoArgs,
		Long: `List available hooks for the current workspace, with their source.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			out := output.FromContext(cmd.Context())
			eff, local, _ := effectiveWithLocal(cmd)

			if jsonOutput {
				enc := json.NewEncoder(out.Writer())
				enc.SetIndent("", "  ")
				return enc.Encode(eff.Hooks.Hooks)
			}

			if len(eff.Hooks.Hooks) == 0 {
				out.Println("No hooks configured")
				return nil
			}

			names := make([]string, 0, len(eff.Hooks.Hooks))
			for name := range eff.Hooks.Hooks {
				names = append(names, name)
			}
			slices.Sort(names)

			for _, name := range names {
				hook := eff.Hooks.Hooks[name]
				src := "global"
				if local != nil {
					if _, inLocal := local.Hooks.Hooks[name]; inLocal {
						if _, inGlobal := cfg.Hooks.Hooks[name]; inGlobal {
							src = "local (override)"
						} else {
							src = "local"
						}
					}
				}

				out.Printf("%s: [%s]\n", name, src)
				out.Printf("  command: %s\n", hook.Command)
				if hook.Description != "" {
					out.Printf("  description: %s\n", hook.Description)
				}
				if len(hook.On) > 0 {
					out.Printf("  on: %s\n", strings.Join(hook.On, ", "))
				}
				out.Println()
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the global config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Path()
			if err != nil {
				return err
			}
			output.FromContext(cmd.Context()).Println(path)
			return nil
		},
	}
}
