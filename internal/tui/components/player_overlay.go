package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/streamflix/streamflix/internal/domain"
	"github.com/streamflix/streamflix/internal/tui/styles"
)

// PlaceholderText is shown in place of playback controls when a movie has no trailer
const PlaceholderText = "No trailer is available for this movie."

const overlayPanelWidth = 60

// PlayerOverlay is the modal panel drawn while a trailer is mounted. The
// video itself plays in the external player window; the panel mirrors its
// state and takes the playback keys.
type PlayerOverlay struct {
	visible     bool
	movie       domain.Movie
	placeholder bool
	paused      bool
	ended       bool
	position    float64
	err         string

	// Screen size, for centering and hit testing
	width  int
	height int
}

// NewPlayerOverlay creates a hidden overlay
func NewPlayerOverlay() PlayerOverlay {
	return PlayerOverlay{}
}

// Show displays the overlay for movie. Without media the overlay shows the
// placeholder text.
func (o *PlayerOverlay) Show(movie domain.Movie, hasMedia bool) {
	o.visible = true
	o.movie = movie
	o.placeholder = !hasMedia
	o.paused = true
	o.ended = false
	o.position = 0
	o.err = ""
}

// Hide dismisses the overlay
func (o *PlayerOverlay) Hide() {
	o.visible = false
}

// IsVisible returns whether the overlay is shown
func (o PlayerOverlay) IsVisible() bool {
	return o.visible
}

// IsPlaceholder returns whether the overlay is showing the no-trailer message
func (o PlayerOverlay) IsPlaceholder() bool {
	return o.placeholder
}

// Movie returns the movie shown
func (o PlayerOverlay) Movie() domain.Movie {
	return o.movie
}

// Paused returns the last play state reported by the player
func (o PlayerOverlay) Paused() bool {
	return o.paused
}

// Position returns the last position reported by the player
func (o PlayerOverlay) Position() float64 {
	return o.position
}

// SetError shows a player problem inside the panel
func (o *PlayerOverlay) SetError(msg string) {
	o.err = msg
}

// SetSize records the screen size
func (o *PlayerOverlay) SetSize(width, height int) {
	o.width = width
	o.height = height
}

// Apply mirrors a media event in the panel
func (o *PlayerOverlay) Apply(ev domain.MediaEvent) {
	switch ev.Kind {
	case domain.MediaTimeUpdate:
		o.position = ev.Position
	case domain.MediaPlay:
		o.paused = false
		o.ended = false
		o.position = ev.Position
	case domain.MediaPause:
		o.paused = true
		o.position = ev.Position
	case domain.MediaEnded:
		o.paused = true
		o.ended = true
		o.position = 0
	}
}

// PanelRect returns the panel's screen position and size
func (o PlayerOverlay) PanelRect() (x, y, w, h int) {
	panel := o.View()
	w = lipgloss.Width(panel)
	h = lipgloss.Height(panel)
	x = max(o.width-w, 0) / 2
	y = max(o.height-h, 0) / 2
	return x, y, w, h
}

// Contains reports whether a screen position falls on the panel
func (o PlayerOverlay) Contains(x, y int) bool {
	px, py, w, h := o.PanelRect()
	return x >= px && x < px+w && y >= py && y < py+h
}

// View renders the panel
func (o PlayerOverlay) View() string {
	if !o.visible {
		return ""
	}

	contentWidth := overlayPanelWidth - 6 // Border + padding

	title := o.movie.Title
	if year := o.movie.DisplayYear(); year != "" {
		title = fmt.Sprintf("%s (%s)", title, year)
	}

	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render(styles.Truncate(title, contentWidth)))
	b.WriteString("\n")

	if o.placeholder {
		b.WriteString(styles.SubtitleStyle.Render(PlaceholderText))
		b.WriteString("\n\n")
		b.WriteString(hint("esc", "close"))
		return styles.ModalStyle.Width(overlayPanelWidth - 2).Render(b.String())
	}

	state := "▶ Playing"
	switch {
	case o.ended:
		state = "■ Ended"
	case o.paused:
		state = "❚❚ Paused"
	}
	b.WriteString(styles.AccentStyle.Render(state))
	b.WriteString("  ")
	b.WriteString(styles.SubtitleStyle.Render(FormatPosition(o.position)))
	b.WriteString("\n")

	if o.err != "" {
		b.WriteString(styles.ErrorStyle.Render(styles.Truncate(o.err, contentWidth)))
	}
	b.WriteString("\n")

	b.WriteString(strings.Join([]string{
		hint("space", "play/pause"),
		hint("←/→", "10s"),
		hint("n/b", "next/prev"),
		hint("esc", "close"),
	}, "  "))

	return styles.ModalStyle.Width(overlayPanelWidth - 2).Render(b.String())
}

func hint(key, desc string) string {
	return styles.HelpKeyStyle.Render(key) + " " + styles.HelpDescStyle.Render(desc)
}

// FormatPosition formats seconds as M:SS or H:MM:SS
func FormatPosition(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int64(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}
