package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/streamflix/streamflix/internal/tui/styles"
)

// FooterText is the right-hand footer credit
const FooterText = "© 2025 StreamFlix"

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}

	var content string
	switch m.Screen {
	case ScreenDetail:
		content = m.Detail.View()
	default:
		content = m.renderHome()
	}

	view := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		content,
		m.renderFooter(),
	)

	// Overlay the player panel; its placement must match PlayerOverlay.PanelRect
	if m.Overlay.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.Overlay.View(),
			lipgloss.WithWhitespaceChars("░"),
			lipgloss.WithWhitespaceForeground(styles.SlateLight))
	}

	if m.InputModal.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.InputModal.View())
	}

	return view
}

// renderHeader renders the logo line with the signed-in user
func (m Model) renderHeader() string {
	left := styles.LogoStyle.Render("STREAMFLIX")

	user := "not signed in"
	if m.Username != "" {
		user = m.Username
	}
	right := styles.DimStyle.Render(user)

	gap := max(m.Width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// renderHome renders the home page in its current state
func (m Model) renderHome() string {
	switch {
	case m.Loading:
		return m.renderPanel(RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render("Loading movies..."))
	case m.HomeErr != nil:
		msg := RenderError(m.HomeErr, m.Width-4) + "\n\n" +
			styles.HelpKeyStyle.Render("r") + styles.HelpDescStyle.Render(" retry")
		return m.renderPanel(msg)
	default:
		return m.Grid.View()
	}
}

// renderPanel draws a bordered box the size of the content area
func (m Model) renderPanel(content string) string {
	style := styles.InactiveBorder
	frameW, frameH := style.GetFrameSize()
	return style.
		Width(m.Width - frameW).
		Height(m.Height - ChromeHeight - frameH).
		Padding(0, 1).
		Render(content)
}

// renderFooter renders a single-line minimal footer
func (m Model) renderFooter() string {
	var left string
	switch {
	case m.pendingPlay != "":
		left = RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.DimStyle.Render(m.StatusMsg)
		}
	}

	right := styles.DimStyle.Render(FooterText) + "  " +
		styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	gap := max(m.Width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return left + strings.Repeat(" ", gap) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
BROWSING                        DETAIL
  h/j/k/l    Move                 p/Enter  Play trailer
  g/G        First/last           f        Toggle favorite
  PgUp/PgDn  Scroll page          1-5      Rate
  Enter      Open detail          c        Comment
  p          Play trailer         j/k      Scroll
  /          Filter               Esc      Back
  t          Jump to title
  r          Refresh

PLAYER                          OTHER
  Space      Play/pause           q        Quit
  ←/→        Seek 10s             ?        This help
  n/b        Next/previous
  Esc        Close

Press any key to close`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}

// RenderSpinner renders a loading spinner
func RenderSpinner(frame int) string {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return styles.SpinnerStyle.Render(frames[frame%len(frames)])
}

// RenderError renders an error message wrapped to width
func RenderError(err error, width int) string {
	return styles.ErrorStyle.Width(max(width, 10)).Render("Error: " + err.Error())
}
