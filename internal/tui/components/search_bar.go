package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// SearchBar is the single-line input used for catalog search and list filtering
type SearchBar struct {
	input   textinput.Model
	visible bool
}

// NewSearchBar creates a new search bar
func NewSearchBar() SearchBar {
	ti := textinput.New()
	ti.CharLimit = 100
	ti.Width = 40
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return SearchBar{input: ti}
}

// Show focuses the bar with the given prompt and initial value
func (s *SearchBar) Show(prompt, placeholder, value string) tea.Cmd {
	s.visible = true
	s.input.Prompt = prompt
	s.input.Placeholder = placeholder
	s.input.SetValue(value)
	s.input.CursorEnd()
	return s.input.Focus()
}

// Hide blurs and hides the bar, keeping its value
func (s *SearchBar) Hide() {
	s.visible = false
	s.input.Blur()
}

// Visible returns true while the bar is accepting input
func (s SearchBar) Visible() bool {
	return s.visible
}

// Value returns the current text
func (s SearchBar) Value() string {
	return s.input.Value()
}

// SetWidth updates the input width
func (s *SearchBar) SetWidth(width int) {
	s.input.Width = max(10, width-4)
}

// Update forwards key input to the text field
func (s SearchBar) Update(msg tea.Msg) (SearchBar, tea.Cmd) {
	if !s.visible {
		return s, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// View renders the component
func (s SearchBar) View() string {
	if !s.visible {
		return ""
	}
	return s.input.View()
}
