package main

import (
	"os"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/raphi011/wsmux/internal/config"
	"github.com/raphi011/wsmux/internal/log"
	"github.com/raphi011/wsmux/internal/output"
	"github.com/raphi011/wsmux/internal/ui/static"
	"github.com/raphi011/wsmux/internal/workspace"
)

func newWindowsCmd() *cobra.Command {
	var duplicates bool

	cmd := &cobra.Command{
		Use:     "windows [query]",
		Short:   "List the windows of the base session",
		Aliases: []string{"ls"},
		GroupID: GroupCore,
		Args:    cobra.MaximumNArgs(1),
		Long: `List the windows of the base session with their workspace.

A query fuzzy-matches window names and workspace paths; the best matches
come first. Untagged windows show "-". Workspaces tagged on more than one
window are highlighted; --duplicates shows only those.`,
		Example: `  wsmux windows                 # all windows
  wsmux windows api             # fuzzy filter
  wsmux windows --duplicates    # windows left by racing terminals`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			out := output.FromContext(ctx)
			l := log.FromContext(ctx)

			tagged, err := newResolver(cfg, newClient(cfg)).List(ctx, cfg.Session)
			if err != nil {
				return err
			}

			dup := map[string]bool{}
			for path := range workspace.Duplicates(tagged) {
				dup[path] = true
			}
			if duplicates {
				tagged = filterTagged(tagged, func(t workspace.Tagged) bool { return t.Tagged && dup[t.Workspace] })
			}
			if len(args) == 1 {
				tagged = fuzzyFilter(tagged, args[0])
			}

			if len(tagged) == 0 {
				l.Println("No windows")
				return nil
			}

			return static.Write(out.Writer(), os.Environ(), static.WindowTable(tagged, dup))
		},
	}

	cmd.Flags().BoolVarP(&duplicates, "duplicates", "d", false, "Only show workspaces tagged on several windows")

	return cmd
}

func filterTagged(tagged []workspace.Tagged, keep func(workspace.Tagged) bool) []workspace.Tagged {
	var out []workspace.Tagged
	for _, t := range tagged {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// taggedSource implements fuzzy.Source over window name and workspace.
type taggedSource []workspace.Tagged

func (s taggedSource) String(i int) string { return s[i].Window.Name + " " + s[i].Workspace }
func (s taggedSource) Len() int            { return len(s) }

// fuzzyFilter returns the windows matching query, best match first.
func fuzzyFilter(tagged []workspace.Tagged, query string) []workspace.Tagged {
	matches := fuzzy.FindFrom(query, taggedSource(tagged))
	out := make([]workspace.Tagged, len(matches))
	for i, m := range matches {
		out[i] = tagged[m.Index]
	}
	return out
}
