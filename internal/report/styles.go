package report

import "github.com/charmbracelet/lipgloss"

// Palette for terminal output.
var (
	ColorSuccess = lipgloss.Color("#2CD7C7")
	ColorError   = lipgloss.Color("#E74C3C")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorMuted   = lipgloss.Color("#2C4A54")
)

// Icon marks a message line.
type Icon string

const (
	IconPass  Icon = "✓"
	IconFail  Icon = "✗"
	IconError Icon = "!"
)

// styles renders text either with the palette or as plain text.
type styles struct {
	title   lipgloss.Style
	pass    lipgloss.Style
	fail    lipgloss.Style
	warning lipgloss.Style
	muted   lipgloss.Style
	color   bool
}

func newStyles(color bool) styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		pass:    lipgloss.NewStyle().Foreground(ColorSuccess),
		fail:    lipgloss.NewStyle().Foreground(ColorError),
		warning: lipgloss.NewStyle().Foreground(ColorWarning).Bold(true),
		muted:   lipgloss.NewStyle().Foreground(ColorMuted),
		color:   color,
	}
}

func (s styles) render(st lipgloss.Style, text string) string {
	if !s.color {
		return text
	}
	return st.Render(text)
}
