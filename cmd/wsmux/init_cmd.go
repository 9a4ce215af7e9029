package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/wsmux/internal/config"
	"github.com/raphi011/wsmux/internal/output"
	"github.com/raphi011/wsmux/internal/shell"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "init <shell>",
		Short:     "Output the shell startup snippet",
		GroupID:   GroupShell,
		ValidArgs: config.ValidShells,
		Args:      cobra.ExactArgs(1),
		Long: `Output the snippet that hands new interactive shells to wsmux.

The snippet runs 'wsmux connect' and exits the shell once tmux detaches.
When connect declines (inside tmux, a non-matching terminal, no tmux
installed) or fails, the shell starts as usual.

'wsmux install' writes the same snippet into your rc file.`,
		Example: `  eval "$(wsmux init bash)"        # add to ~/.bashrc
  eval "$(wsmux init zsh)"         # add to ~/.zshrc
  wsmux init fish | source         # add to ~/.config/fish/config.fish`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ValidateShell(args[0]); err != nil {
				return err
			}
			snippet, err := shell.Snippet(args[0])
			if err != nil {
				return err
			}
			output.FromContext(cmd.Context()).Print(snippet)
			return nil
		},
	}

	return cmd
}
