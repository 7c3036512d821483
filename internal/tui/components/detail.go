package components

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/streamflix/streamflix/internal/domain"
	"github.com/streamflix/streamflix/internal/service"
	"github.com/streamflix/streamflix/internal/tui/styles"
)

// DetailState is the render state of the detail view. Exactly one applies.
type DetailState int

const (
	DetailLoading DetailState = iota
	DetailNotFound
	DetailLoaded
	DetailError
)

func (s DetailState) String() string {
	switch s {
	case DetailLoading:
		return "loading"
	case DetailNotFound:
		return "not found"
	case DetailLoaded:
		return "loaded"
	case DetailError:
		return "error"
	default:
		return "unknown"
	}
}

// Detail shows one movie with its favorite flag, rating and comments
type Detail struct {
	state   DetailState
	movieID string
	detail  service.Detail
	err     error
	busy    bool // Favorite toggle in flight

	posterFallback string

	width  int
	height int
	offset int // Scroll offset in body lines
}

// NewDetail creates a detail view that shows posterFallback for movies
// without a poster
func NewDetail(posterFallback string) Detail {
	return Detail{posterFallback: posterFallback}
}

// SetLoading resets the view for a new movie id
func (d *Detail) SetLoading(movieID string) {
	d.state = DetailLoading
	d.movieID = movieID
	d.detail = service.Detail{}
	d.err = nil
	d.busy = false
	d.offset = 0
}

// SetLoaded shows a fetched detail
func (d *Detail) SetLoaded(detail service.Detail) {
	d.state = DetailLoaded
	d.detail = detail
	d.err = nil
}

// SetError shows a fetch failure; a missing movie gets its own state
func (d *Detail) SetError(err error) {
	d.err = err
	if errors.Is(err, domain.ErrMovieNotFound) {
		d.state = DetailNotFound
		return
	}
	d.state = DetailError
}

// State returns the current render state
func (d Detail) State() DetailState {
	return d.state
}

// MovieID returns the id the view was opened with
func (d Detail) MovieID() string {
	return d.movieID
}

// Detail returns the loaded detail
func (d Detail) Detail() service.Detail {
	return d.detail
}

// Busy reports whether a favorite toggle is in flight
func (d Detail) Busy() bool {
	return d.busy
}

// SetBusy marks a favorite toggle in flight
func (d *Detail) SetBusy(busy bool) {
	d.busy = busy
}

// SetFavorite applies a confirmed favorite flag
func (d *Detail) SetFavorite(favorite bool) {
	d.detail.IsFavorite = favorite
}

// SetRating applies a confirmed rating
func (d *Detail) SetRating(rating int) {
	d.detail.Rating = rating
}

// AddComment appends a posted comment
func (d *Detail) AddComment(c domain.Comment) {
	d.detail.Comments = append(d.detail.Comments, c)
}

// SetSize updates the component dimensions
func (d *Detail) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// ScrollBy moves the body by delta lines
func (d *Detail) ScrollBy(delta int) {
	d.offset = max(d.offset+delta, 0)
}

// View renders the component
func (d Detail) View() string {
	style := styles.ActiveBorder
	frameW, frameH := style.GetFrameSize()
	contentWidth := max(d.width-frameW-HorizontalPadding, 10)
	bodyHeight := max(d.height-frameH, 1)

	var body string
	switch d.state {
	case DetailLoading:
		body = styles.DimStyle.Render("Loading...")
	case DetailNotFound:
		body = styles.SubtitleStyle.Render("Movie not found.")
	case DetailError:
		body = styles.ErrorStyle.Render(lipgloss.NewStyle().Width(contentWidth).Render("Error: " + d.err.Error()))
	case DetailLoaded:
		body = d.window(d.renderLoaded(contentWidth), bodyHeight)
	}

	return style.
		Width(d.width - frameW).
		Height(d.height - frameH).
		Padding(0, 1).
		Render(body)
}

// window clips rendered lines to the scroll offset
func (d Detail) window(content string, height int) string {
	lines := strings.Split(content, "\n")
	offset := min(d.offset, max(len(lines)-height, 0))
	end := min(offset+height, len(lines))
	return strings.Join(lines[offset:end], "\n")
}

func (d Detail) renderLoaded(width int) string {
	movie := d.detail.Movie
	wrap := lipgloss.NewStyle().Width(width)

	title := movie.Title
	if year := movie.DisplayYear(); year != "" {
		title = fmt.Sprintf("%s (%s)", title, year)
	}

	favorite := styles.RenderFavorite(d.detail.IsFavorite)
	if d.busy {
		favorite += styles.DimStyle.Render(" saving...")
	}

	poster := movie.PosterURL
	if poster == "" {
		poster = d.posterFallback
	}

	trailer := styles.SuccessStyle.Render("available")
	if !movie.HasVideo() {
		trailer = styles.DimStyle.Render("none")
	}

	rating := styles.RenderStars(d.detail.Rating, domain.MaxRating)
	if d.detail.Rating == 0 {
		rating += styles.DimStyle.Render(" not rated")
	}

	lines := []string{
		styles.TitleStyle.Render(styles.Truncate(title, width-2)) + " " + favorite,
		"",
		label("Poster") + styles.DimStyle.Render(styles.Truncate(poster, width-10)),
		label("Trailer") + trailer,
		label("Rating") + rating,
		"",
	}
	if movie.Description != "" {
		lines = append(lines, wrap.Render(styles.SubtitleStyle.Render(movie.Description)), "")
	}

	lines = append(lines, styles.AccentStyle.Render(fmt.Sprintf("Comments (%d)", len(d.detail.Comments))))
	if len(d.detail.Comments) == 0 {
		lines = append(lines, styles.DimStyle.Render("No comments yet."))
	}
	for _, c := range d.detail.Comments {
		header := c.Author
		if header == "" {
			header = "anonymous"
		}
		if !c.CreatedAt.IsZero() {
			header += " · " + c.CreatedAt.Local().Format("Jan 2, 2006")
		}
		lines = append(lines,
			styles.HelpKeyStyle.Render(header),
			wrap.Render(c.Text),
		)
	}

	return strings.Join(lines, "\n")
}

func label(name string) string {
	return styles.DimStyle.Render(fmt.Sprintf("%-9s", name))
}
