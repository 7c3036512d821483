package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	BrandRed   = lipgloss.Color("#E50914")
	SlateDark  = lipgloss.Color("#141414")
	SlateLight = lipgloss.Color("#2F2F2F")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#B3B3B3")
	White      = lipgloss.Color("#F9FAFB")
	Gold       = lipgloss.Color("#F5C518")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
)

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BrandRed)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(BrandRed)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	LogoStyle = lipgloss.NewStyle().
			Foreground(BrandRed).
			Bold(true)
)

// Favorite and rating markers
const (
	FavoriteChar    = "♥"
	NotFavoriteChar = "♡"
	StarChar        = "★"
	EmptyStarChar   = "☆"
)

var (
	FavoriteStyle = lipgloss.NewStyle().Foreground(BrandRed)
	StarStyle     = lipgloss.NewStyle().Foreground(Gold)
)

// Grid cell styles
var (
	CellStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SlateLight).
			Padding(0, 1)

	CellSelectedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(BrandRed).
				Padding(0, 1)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BrandRed).
			Padding(1, 2).
			Background(SlateDark)

	ModalTitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true).
			MarginBottom(1)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(BrandRed)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Spinner style
var (
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(BrandRed)
)

// Filter styles
var (
	FilterStyle = lipgloss.NewStyle().
			Foreground(BrandRed)

	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(BrandRed).
				Bold(true)

	MatchHighlightStyle = lipgloss.NewStyle().
				Foreground(BrandRed).
				Bold(true)
)

// Truncate shortens s to width cells, ending in an ellipsis when cut
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}

// RenderStars renders a 1-5 rating, 0 meaning unrated
func RenderStars(rating, outOf int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > outOf {
		rating = outOf
	}
	return StarStyle.Render(strings.Repeat(StarChar, rating)) +
		DimStyle.Render(strings.Repeat(EmptyStarChar, outOf-rating))
}

// RenderFavorite renders the favorite marker
func RenderFavorite(favorite bool) string {
	if favorite {
		return FavoriteStyle.Render(FavoriteChar)
	}
	return DimStyle.Render(NotFavoriteChar)
}

// HighlightMatches renders text with the characters at the matched byte
// offsets emphasized
func HighlightMatches(text string, matched []int, base lipgloss.Style) string {
	if len(matched) == 0 {
		return base.Render(text)
	}
	set := make(map[int]bool, len(matched))
	for _, i := range matched {
		set[i] = true
	}

	var b strings.Builder
	var chunk strings.Builder
	inMatch := false
	flush := func() {
		if chunk.Len() == 0 {
			return
		}
		if inMatch {
			b.WriteString(MatchHighlightStyle.Render(chunk.String()))
		} else {
			b.WriteString(base.Render(chunk.String()))
		}
		chunk.Reset()
	}
	for i, r := range text {
		if set[i] != inMatch {
			flush()
			inMatch = set[i]
		}
		chunk.WriteRune(r)
	}
	flush()
	return b.String()
}
