package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by commands.
type Styles struct {
	Header     lipgloss.Style
	Bold       lipgloss.Style
	Muted      lipgloss.Style
	Success    lipgloss.Style
	Error      lipgloss.Style
	Warning    lipgloss.Style
	Info       lipgloss.Style
	SourcePath lipgloss.Style
}

// NewStyles builds styles bound to a lipgloss renderer. With the Ascii color
// profile every style renders plain text.
func NewStyles(lr *lipgloss.Renderer) *Styles {
	return &Styles{
		Header:     lr.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		Bold:       lr.NewStyle().Bold(true),
		Muted:      lr.NewStyle().Foreground(lipgloss.Color("245")),
		Success:    lr.NewStyle().Foreground(lipgloss.Color("42")),
		Error:      lr.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Warning:    lr.NewStyle().Foreground(lipgloss.Color("214")),
		Info:       lr.NewStyle().Foreground(lipgloss.Color("39")),
		SourcePath: lr.NewStyle().Bold(true).Foreground(lipgloss.Color("75")),
	}
}
