package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/raphi011/wsmux/internal/config"
	"github.com/raphi011/wsmux/internal/log"
	"github.com/raphi011/wsmux/internal/rcblock"
	"github.com/raphi011/wsmux/internal/shell"
	"github.com/raphi011/wsmux/internal/ui/prompt"
)

// stdinIsTerminal reports whether prompts can be shown. Replaced in tests.
var stdinIsTerminal = func() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// rcFlags are shared by install and uninstall.
type rcFlags struct {
	shell string
	rc    string
	yes   bool
}

func (f *rcFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.shell, "shell", "s", "", "Shell to configure (bash, zsh, fish; default: from $SHELL)")
	cmd.Flags().StringVar(&f.rc, "rc", "", "Startup file to edit (default: the shell's rc file)")
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "Do not ask for confirmation")
	cmd.RegisterFlagCompletionFunc("shell", cobra.FixedCompletions(config.ValidShells, cobra.ShellCompDirectiveNoFileComp))
}

// target returns the shell and rc file to edit.
func (f *rcFlags) target() (sh, rc string, err error) {
	sh = f.shell
	if sh == "" {
		sh = shell.Detect(os.Getenv("SHELL"))
	}
	if sh == "" {
		if !stdinIsTerminal() {
			return "", "", fmt.Errorf("cannot detect your shell from $SHELL; use --shell")
		}
		if sh, err = prompt.PickShell(shellOptions()); err != nil {
			return "", "", err
		}
		if sh == "" {
			return "", "", fmt.Errorf("no shell selected")
		}
	}
	if err := config.ValidateShell(sh); err != nil {
		return "", "", err
	}

	rc = f.rc
	if rc == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", "", err
		}
		rc = shell.RCFile(sh, home)
	}
	return sh, rc, nil
}

// shellOptions lists the supported shells with their default rc files.
func shellOptions() []prompt.ShellOption {
	home, _ := os.UserHomeDir()
	opts := make([]prompt.ShellOption, 0, len(config.ValidShells))
	for _, sh := range config.ValidShells {
		opts = append(opts, prompt.ShellOption{Name: sh, RCFile: shell.RCFile(sh, home)})
	}
	return opts
}

// confirm asks before applying edit. It refuses when nobody can answer.
func (f *rcFlags) confirm(ctx context.Context, edit prompt.Edit) (bool, error) {
	if f.yes {
		return true, nil
	}
	if !stdinIsTerminal() {
		return false, fmt.Errorf("refusing to edit %s without a terminal; use --yes", edit.Path)
	}
	ok, err := prompt.ConfirmEdit(edit)
	if err != nil {
		return false, err
	}
	if !ok {
		log.FromContext(ctx).Println("Aborted")
	}
	return ok, nil
}

func newInstallCmd() *cobra.Command {
	var flags rcFlags

	cmd := &cobra.Command{
		Use:     "install",
		Short:   "Add the wsmux block to your shell rc file",
		GroupID: GroupShell,
		Args:    cobra.NoArgs,
		Long: `Add the wsmux startup snippet to your shell rc file.

The snippet is written between "` + shell.StartMarker + `" and
"` + shell.EndMarker + `" lines. Running install again replaces the
block in place; the rest of the file is left untouched.`,
		Example: `  wsmux install                    # detect the shell from $SHELL
  wsmux install --shell zsh -y     # no questions
  wsmux install --rc ~/.bash_profile`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			sh, rc, err := flags.target()
			if err != nil {
				return err
			}
			snippet, err := shell.Snippet(sh)
			if err != nil {
				return err
			}

			ok, err := flags.confirm(ctx, prompt.Edit{
				Verb:  "Add to",
				Path:  rc,
				Block: rcblock.Render(shell.StartMarker, shell.EndMarker, snippet),
			})
			if err != nil || !ok {
				return err
			}

			changed, err := rcblock.Upsert(rc, shell.StartMarker, shell.EndMarker, snippet)
			if err != nil {
				return fmt.Errorf("install into %s: %w", rc, err)
			}
			if !changed {
				l.Printf("%s is up to date\n", rc)
				return nil
			}
			l.Printf("Installed wsmux in %s; open a new terminal to use it\n", rc)
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

func newUninstallCmd() *cobra.Command {
	var flags rcFlags

	cmd := &cobra.Command{
		Use:     "uninstall",
		Short:   "Remove the wsmux block from your shell rc file",
		GroupID: GroupShell,
		Args:    cobra.NoArgs,
		Long: `Remove the wsmux block from your shell rc file.

tmux sessions and windows are not touched.`,
		Example: `  wsmux uninstall
  wsmux uninstall --shell fish -y`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			sh, rc, err := flags.target()
			if err != nil {
				return err
			}

			installed, err := rcblock.Contains(rc, shell.StartMarker)
			if err != nil {
				return err
			}
			if !installed {
				l.Printf("wsmux is not installed in %s\n", rc)
				return nil
			}

			snippet, _ := shell.Snippet(sh)
			ok, err := flags.confirm(ctx, prompt.Edit{
				Verb:  "Remove from",
				Path:  rc,
				Block: rcblock.Render(shell.StartMarker, shell.EndMarker, snippet),
			})
			if err != nil || !ok {
				return err
			}

			if _, err := rcblock.Remove(rc, shell.StartMarker, shell.EndMarker); err != nil {
				return fmt.Errorf("uninstall from %s: %w", rc, err)
			}
			l.Printf("Removed wsmux from %s\n", rc)
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}
