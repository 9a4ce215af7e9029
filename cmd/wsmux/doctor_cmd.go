package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raphi011/wsmux/internal/config"
	"github.com/raphi011/wsmux/internal/doctor"
	"github.com/raphi011/wsmux/internal/output"
	"github.com/raphi011/wsmux/internal/shell"
)

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "doctor",
		Short:   "Diagnose the wsmux setup",
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		Long: `Diagnose the wsmux setup. Nothing is changed.

Checks:
- tmux is installed (and which version)
- The config file parses and is valid
- The base session is running
- No workspace is tagged on more than one window
- How many client sessions exist (never cleaned up by wsmux)
- The shell rc block is installed`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			out := output.FromContext(ctx)

			client := newClient(cfg)
			report := doctor.Run(ctx, doctor.Input{
				Config:     *cfg,
				ConfigPath: configPath,
				ConfigErr:  configErr,
				Mux:        client,
				Windows:    newResolver(cfg, client),
				RCFiles:    rcCandidates(),
			})

			doctor.Print(out.Writer(), report)
			if n := report.Failed(); n > 0 {
				return fmt.Errorf("%d problem(s) found", n)
			}
			return nil
		},
	}

	return cmd
}

// rcCandidates returns the rc files of every supported shell.
func rcCandidates() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	files := make([]string, 0, len(config.ValidShells))
	for _, sh := range config.ValidShells {
		files = append(files, shell.RCFile(sh, home))
	}
	return files
}
