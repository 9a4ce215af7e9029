package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/wsmux/internal/config"
	"github.com/raphi011/wsmux/internal/log"
	"github.com/raphi011/wsmux/internal/output"
	"github.com/raphi011/wsmux/internal/ui/styles"
)

var (
	// Global flags
	verbose bool
	quiet   bool

	// Set by Execute. A broken config file still yields defaults; connect
	// refuses to run on them, other commands warn.
	configPath string
	configErr  error
)

// Command group IDs for organizing help output
const (
	GroupCore   = "core"
	GroupShell  = "shell"
	GroupConfig = "config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wsmux",
	Short: "One tmux window per workspace, shared by every terminal",
	Long: `wsmux maps workspaces to tmux windows.

Every terminal opened in a workspace lands in that workspace's window of
one long-lived tmux session. Each terminal attaches through its own
grouped client session, so terminals can show different windows at once.

Run 'wsmux install' to hook it into your shell.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2, // Enable typo suggestions
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
			return nil
		}

		if verbose && quiet {
			return fmt.Errorf("--verbose and --quiet are mutually exclusive")
		}

		// Flags are parsed by now, so the logger sees -v/-q.
		l := log.New(os.Stderr, verbose, quiet)
		cmd.SetContext(log.WithLogger(cmd.Context(), l))
		styles.Init(os.Stdout, os.Environ())

		if configErr != nil && cmd.Name() != "connect" && cmd.Name() != "doctor" {
			l.Warnf("%v (using defaults)", configErr)
		}
		return nil
	},
	// Run is not set - shows help when no subcommand provided
}

// exitError ends the process with code. A nil err exits silently.
type exitError struct {
	code int
	err  error
}

// Exit codes of wsmux connect.
const (
	exitFailure = 1
	exitSkipped = 3
)

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit status %d", e.code)
}

func (e *exitError) Unwrap() error {
	return e.err
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	loadedCfg, err := config.Load()
	configErr = err
	if p, err := config.Path(); err == nil {
		if _, statErr := os.Stat(p); statErr == nil {
			configPath = p
		}
	}

	workDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "wsmux: failed to get working directory: %v\n", err)
		os.Exit(exitFailure)
	}

	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ctx = config.WithConfig(ctx, &loadedCfg)
	ctx = config.WithWorkDir(ctx, workDir)

	// Add output printer (stdout for primary data)
	ctx = output.WithPrinter(ctx, os.Stdout)

	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		cancel()
		var ee *exitError
		if errors.As(err, &ee) {
			if ee.err != nil {
				fmt.Fprintf(os.Stderr, "wsmux: %v\n", ee.err)
			}
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'wsmux -h' for help")
		os.Exit(exitFailure)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show tmux commands being executed")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Version flag
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupCore, Title: "Core Commands:"},
		&cobra.Group{ID: GroupShell, Title: "Shell Integration:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Core commands
	rootCmd.AddCommand(newConnectCmd())
	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newWindowsCmd())
	rootCmd.AddCommand(newHookCmd())

	// Shell integration
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newInstallCmd())
	rootCmd.AddCommand(newUninstallCmd())

	// Config commands
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newDoctorCmd())
}
