// Package styles provides shared lipgloss styles for UI components.
//
// Colors are chosen once per process with Init, which downgrades to plain
// text when the output is not a color terminal.
package styles

import (
	"image/color"
	"io"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
)

// Theme defines the color palette for UI components
type Theme struct {
	Primary color.Color // headers, titles
	Accent  color.Color // selected items
	Success color.Color // passing checks
	Error   color.Color // failing checks
	Warning color.Color // warnings
	Muted   color.Color // secondary text
}

var (
	// DefaultTheme is used on color terminals.
	DefaultTheme = Theme{
		Primary: lipgloss.Color("62"),  // cyan/teal
		Accent:  lipgloss.Color("212"), // pink/magenta
		Success: lipgloss.Color("82"),  // green
		Error:   lipgloss.Color("196"), // red
		Warning: lipgloss.Color("214"), // orange
		Muted:   lipgloss.Color("240"), // dark gray
	}

	// NoneTheme renders without any colors. Bold is kept.
	NoneTheme = Theme{
		Primary: lipgloss.NoColor{},
		Accent:  lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
		Muted:   lipgloss.NoColor{},
	}
)

// Shared styles, rebuilt by Apply.
var (
	Accent color.Color = DefaultTheme.Accent

	Bold         = lipgloss.NewStyle().Bold(true)
	HeaderStyle  = lipgloss.NewStyle().Bold(true)
	AccentStyle  = lipgloss.NewStyle()
	SuccessStyle = lipgloss.NewStyle()
	ErrorStyle   = lipgloss.NewStyle()
	WarningStyle = lipgloss.NewStyle()
	MutedStyle   = lipgloss.NewStyle()
)

func init() {
	Apply(DefaultTheme)
}

// Init picks a theme and symbol set for output written to w.
func Init(w io.Writer, environ []string) colorprofile.Profile {
	profile := colorprofile.Detect(w, environ)
	if profile < colorprofile.ANSI {
		Apply(NoneTheme)
		SetASCII(true)
	} else {
		Apply(DefaultTheme)
		SetASCII(false)
	}
	return profile
}

// Apply updates all shared style variables to use t.
func Apply(t Theme) {
	Accent = t.Accent
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	AccentStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(t.Success)
	ErrorStyle = lipgloss.NewStyle().Foreground(t.Error)
	WarningStyle = lipgloss.NewStyle().Foreground(t.Warning)
	MutedStyle = lipgloss.NewStyle().Foreground(t.Muted)
}
