package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Footer renders the status line and keyboard hints.
type Footer struct {
	message string
	success bool
	buffer  string
	width   int

	successStyle   lipgloss.Style
	hintStyle      lipgloss.Style
	bufferStyle    lipgloss.Style
	separatorStyle lipgloss.Style
}

// NewFooter creates a new Footer.
func NewFooter() *Footer {
	return &Footer{
		successStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("28")).
			Bold(true),

		hintStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		bufferStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")),

		separatorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("236")),
	}
}

// SetMessage sets the status message.
func (f *Footer) SetMessage(message string, success bool) {
	f.message = message
	f.success = success
}

// SetBuffer shows what has been typed toward a cheat code.
func (f *Footer) SetBuffer(buffer string) {
	f.buffer = buffer
}

// SetWidth sets the footer width.
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// View renders the footer.
func (f *Footer) View() string {
	sep := f.separatorStyle.Render(" │ ")

	left := ""
	switch {
	case f.message != "" && f.success:
		left = f.successStyle.Render("✓ " + f.message)
	case f.message != "":
		left = f.hintStyle.Render(f.message)
	}
	if f.buffer != "" {
		if left != "" {
			left += sep
		}
		left += f.bufferStyle.Render("> " + f.buffer)
	}

	right := f.hintStyle.Render("type a cheat code │ esc quit")
	if left == "" {
		return right
	}
	return left + sep + right
}
