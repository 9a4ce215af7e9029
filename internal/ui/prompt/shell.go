package prompt

import (
	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/raphi011/wsmux/internal/ui/styles"
)

// ShellOption is one entry of the shell picker.
type ShellOption struct {
	Name   string
	RCFile string
}

func (o ShellOption) Title() string       { return o.Name }
func (o ShellOption) Description() string { return o.RCFile }
func (o ShellOption) FilterValue() string { return o.Name }

type shellModel struct {
	list   list.Model
	picked string
	done   bool
}

func newShellModel(options []ShellOption) shellModel {
	items := make([]list.Item, len(options))
	for i, o := range options {
		items[i] = o
	}

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().Foreground(styles.Accent).Bold(true)
	delegate.Styles.SelectedDesc = styles.MutedStyle

	l := list.New(items, delegate, 60, 2*len(options)+10)
	l.Title = "Which shell should start wsmux?"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return shellModel{list: l}
}

func (m shellModel) Init() tea.Cmd {
	return nil
}

func (m shellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter":
			if o, ok := m.list.SelectedItem().(ShellOption); ok {
				m.picked = o.Name
			}
			m.done = true
			return m, tea.Quit
		case "ctrl+c", "esc", "q":
			m.done = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m shellModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}
	return tea.NewView(m.list.View())
}

// PickShell asks which shell to configure. It returns "" when the user
// backs out.
func PickShell(options []ShellOption) (string, error) {
	if len(options) == 0 {
		return "", nil
	}
	final, err := run(newShellModel(options))
	if err != nil {
		return "", err
	}
	return final.(shellModel).picked, nil
}
