// Package static renders non-interactive terminal output.
package static

import (
	"io"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/charmbracelet/colorprofile"

	"github.com/raphi011/wsmux/internal/ui/styles"
	"github.com/raphi011/wsmux/internal/workspace"
)

const (
	colID = iota
	colName
	colWorkspace
)

// untagged stands in for the workspace of a window wsmux did not create.
const untagged = "-"

// WindowTable renders windows as a borderless table, one row each in the
// given order. Workspaces in dup are highlighted. It returns "" for no
// windows.
func WindowTable(windows []workspace.Tagged, dup map[string]bool) string {
	if len(windows) == 0 {
		return ""
	}

	rows := make([][]string, len(windows))
	for i, w := range windows {
		ws := w.Workspace
		switch {
		case !w.Tagged:
			ws = untagged
		case ws == "":
			ws = `""`
		}
		rows[i] = []string{w.Window.ID, w.Window.Name, ws}
	}

	cell := lipgloss.NewStyle().PaddingRight(2)
	t := table.New().
		Headers("ID", "NAME", "WORKSPACE").
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.HeaderStyle.PaddingRight(2)
			}
			if col != colWorkspace {
				return cell
			}
			switch w := windows[row]; {
			case !w.Tagged:
				return styles.MutedStyle.PaddingRight(2)
			case dup[w.Workspace]:
				return styles.WarningStyle.PaddingRight(2)
			}
			return cell
		})

	return t.String() + "\n"
}

// Write writes rendered output to w, downsampling colors to what w
// supports and stripping them entirely when w is not a terminal.
func Write(w io.Writer, environ []string, s string) error {
	_, err := io.WriteString(colorprofile.NewWriter(w, environ), s)
	return err
}
