package prompt

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/raphi011/wsmux/internal/ui/styles"
)

// Edit describes a pending change to an rc file.
type Edit struct {
	Verb  string // "Add to" or "Remove from"
	Path  string
	Block string // lines being written or removed
}

type editModel struct {
	edit  Edit
	apply bool
	done  bool
}

func (m editModel) Init() tea.Cmd {
	return nil
}

func (m editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.apply = true
	case "n", "N", "enter", "esc", "q", "ctrl+c":
		// anything but an explicit yes leaves the file alone
	default:
		return m, nil
	}
	m.done = true
	return m, tea.Quit
}

func (m editModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}
	return tea.NewView(m.render())
}

func (m editModel) render() string {
	var b strings.Builder
	b.WriteString(styles.Bold.Render(m.edit.Verb+" "+m.edit.Path) + "\n")
	if block := strings.TrimRight(m.edit.Block, "\n"); block != "" {
		box := lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(styles.Accent).
			PaddingLeft(1)
		b.WriteString(box.Render(block) + "\n")
	}
	b.WriteString("Apply? [y/N] ")
	return b.String()
}

// ConfirmEdit shows e and reports whether the user accepted it. Enter,
// escape and ctrl+c all decline.
func ConfirmEdit(e Edit) (bool, error) {
	final, err := run(editModel{edit: e})
	if err != nil {
		return false, err
	}
	return final.(editModel).apply, nil
}
