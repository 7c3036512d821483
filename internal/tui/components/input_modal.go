package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/streamflix/streamflix/internal/tui/styles"
)

// InputPurpose says what a submitted value is for
type InputPurpose int

const (
	InputNone InputPurpose = iota
	InputComment
	InputJump
)

const (
	inputModalWidth = 48
	commentLimit    = 500
)

// InputModal is a single-line prompt for comments and jump-to-title
type InputModal struct {
	purpose InputPurpose
	title   string
	input   textinput.Model
}

// NewInputModal creates a hidden input modal
func NewInputModal() InputModal {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.PromptStyle = styles.AccentStyle
	ti.PlaceholderStyle = styles.DimStyle
	ti.Width = inputModalWidth - 4

	return InputModal{input: ti}
}

// Show opens the modal for purpose
func (m *InputModal) Show(purpose InputPurpose, title, placeholder string) {
	m.purpose = purpose
	m.title = title

	m.input.Placeholder = placeholder
	m.input.CharLimit = 0
	if purpose == InputComment {
		m.input.CharLimit = commentLimit
	}
	m.input.Reset()
	m.input.Focus()
}

// Hide closes the modal
func (m *InputModal) Hide() {
	m.purpose = InputNone
	m.input.Blur()
}

// IsVisible reports whether the modal is open
func (m InputModal) IsVisible() bool {
	return m.purpose != InputNone
}

// Purpose returns what the modal was opened for
func (m InputModal) Purpose() InputPurpose {
	return m.purpose
}

// Value returns the typed text
func (m InputModal) Value() string {
	return m.input.Value()
}

// Update feeds msg to the input. submitted is true when enter was pressed;
// esc closes the modal without submitting.
func (m InputModal) Update(msg tea.Msg) (modal InputModal, cmd tea.Cmd, submitted bool) {
	if !m.IsVisible() {
		return m, nil, false
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.Type {
		case tea.KeyEnter:
			return m, nil, true
		case tea.KeyEsc:
			m.Hide()
			return m, nil, false
		}
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd, false
}

// View renders the modal panel
func (m InputModal) View() string {
	if !m.IsVisible() {
		return ""
	}

	action := "post"
	if m.purpose == InputJump {
		action = "jump"
	}
	footer := styles.HelpKeyStyle.Render("enter") + styles.HelpDescStyle.Render(" "+action+"  ") +
		styles.HelpKeyStyle.Render("esc") + styles.HelpDescStyle.Render(" cancel")
	if m.input.CharLimit > 0 {
		count := fmt.Sprintf("%d/%d", len([]rune(m.input.Value())), m.input.CharLimit)
		gap := max(inputModalWidth-lipgloss.Width(footer)-len(count), 1)
		footer += lipgloss.NewStyle().PaddingLeft(gap).Render(styles.DimStyle.Render(count))
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render(styles.Truncate(m.title, inputModalWidth)),
		"",
		m.input.View(),
		"",
		footer,
	)
	return styles.ModalStyle.Width(inputModalWidth + 4).Render(body)
}
