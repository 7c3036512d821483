package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/streamflix/streamflix/internal/domain"
	"github.com/streamflix/streamflix/internal/service"
	"github.com/streamflix/streamflix/internal/tui/styles"
)

// Layout constants for grid
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Padding inside the border (Padding(0,1) = 1 left + 1 right)
	HorizontalPadding = 2

	// Title line at top of content area
	GridHeaderLines = 1

	// Outer size of one movie card
	CellWidth  = 26
	CellHeight = 4
)

// FilterFunc returns the movies matching query, in display order
type FilterFunc func(query string) []service.FilterResult

// Grid is the catalog card browser. It implements service.ScrollLock: while
// locked it ignores navigation keys, the mouse wheel and clicks.
type Grid struct {
	results   []service.FilterResult
	favorites map[string]bool
	filter    FilterFunc

	// Selection
	cursor     int
	offset     int // First visible row
	columns    int
	maxColumns int // 0 = as many as fit
	rows       int // Visible rows

	// Dimensions
	width  int
	height int

	title        string
	scrollLocked bool

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
}

// NewGrid creates an empty grid that filters through filter
func NewGrid(filter FilterFunc) *Grid {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return &Grid{
		filter:      filter,
		favorites:   make(map[string]bool),
		filterInput: ti,
		columns:     1,
		rows:        1,
	}
}

// Reload re-runs the current filter against the catalog, keeping the
// selected movie when it is still listed
func (g *Grid) Reload() {
	selected, hadSelection := g.Selected()
	g.results = g.runFilter(g.filterQuery)
	g.cursor = 0
	g.offset = 0
	if hadSelection {
		g.SelectByID(selected.ID)
	}
}

// SetFavorites replaces the favorite markers
func (g *Grid) SetFavorites(set map[string]bool) {
	g.favorites = make(map[string]bool, len(set))
	for id := range set {
		g.favorites[id] = true
	}
}

// SetFavorite updates one movie's marker
func (g *Grid) SetFavorite(movie domain.Movie, favorite bool) {
	if favorite {
		g.favorites[movie.ID] = true
		return
	}
	delete(g.favorites, movie.ID)
	if movie.LegacyID != "" {
		delete(g.favorites, movie.LegacyID)
	}
}

// IsFavorite reports the marker shown for movie
func (g *Grid) IsFavorite(movie domain.Movie) bool {
	if g.favorites[movie.ID] {
		return true
	}
	return movie.LegacyID != "" && g.favorites[movie.LegacyID]
}

// SetTitle sets the text on the grid's first line
func (g *Grid) SetTitle(title string) {
	g.title = title
}

// SetMaxColumns caps the cards per row; 0 fits as many as the width allows
func (g *Grid) SetMaxColumns(n int) {
	g.maxColumns = max(n, 0)
	g.recalcLayout()
}

// SetSize updates the component dimensions
func (g *Grid) SetSize(width, height int) {
	g.width = width
	g.height = height
	g.recalcLayout()
}

// recalcLayout derives columns and visible rows from the size and filter bar
func (g *Grid) recalcLayout() {
	interiorWidth := g.width - BorderWidth - HorizontalPadding
	g.columns = max(1, interiorWidth/CellWidth)
	if g.maxColumns > 0 {
		g.columns = min(g.columns, g.maxColumns)
	}

	interiorHeight := g.height - BorderHeight - GridHeaderLines
	if g.filterActive {
		interiorHeight--
	}
	g.rows = max(1, interiorHeight/CellHeight)
	g.ensureVisible()
}

// ScrollLocked reports whether background scrolling is suppressed
func (g *Grid) ScrollLocked() bool {
	return g.scrollLocked
}

// SetScrollLocked suppresses or re-enables scrolling
func (g *Grid) SetScrollLocked(locked bool) {
	g.scrollLocked = locked
}

// Len returns the number of listed movies
func (g *Grid) Len() int {
	return len(g.results)
}

// Cursor returns the selected index
func (g *Grid) Cursor() int {
	return g.cursor
}

// Offset returns the first visible row
func (g *Grid) Offset() int {
	return g.offset
}

// Columns returns the number of cards per row
func (g *Grid) Columns() int {
	return g.columns
}

// Selected returns the movie under the cursor
func (g *Grid) Selected() (domain.Movie, bool) {
	if g.cursor < 0 || g.cursor >= len(g.results) {
		return domain.Movie{}, false
	}
	return g.results[g.cursor].Movie, true
}

// SelectByID moves the cursor to the movie with id. Returns false when the
// movie is not listed.
func (g *Grid) SelectByID(id string) bool {
	for i, r := range g.results {
		if r.Movie.Matches(id) {
			g.setCursor(i)
			return true
		}
	}
	return false
}

func (g *Grid) setCursor(pos int) {
	if len(g.results) == 0 {
		g.cursor = 0
		g.offset = 0
		return
	}
	g.cursor = min(max(pos, 0), len(g.results)-1)
	g.ensureVisible()
}

// ensureVisible scrolls so the cursor's row is on screen
func (g *Grid) ensureVisible() {
	row := g.cursor / g.columns
	if row < g.offset {
		g.offset = row
	}
	if row >= g.offset+g.rows {
		g.offset = row - g.rows + 1
	}
}

// scroll moves the viewport by delta rows, dragging the cursor along
func (g *Grid) scroll(delta int) {
	totalRows := (len(g.results) + g.columns - 1) / g.columns
	maxOffset := max(totalRows-g.rows, 0)
	g.offset = min(max(g.offset+delta, 0), maxOffset)

	row := g.cursor / g.columns
	if row < g.offset {
		g.cursor += (g.offset - row) * g.columns
	} else if row >= g.offset+g.rows {
		g.cursor -= (row - g.offset - g.rows + 1) * g.columns
	}
	g.cursor = min(max(g.cursor, 0), max(len(g.results)-1, 0))
}

// CellAt maps a position relative to the grid's top-left corner to a movie
// index
func (g *Grid) CellAt(x, y int) (int, bool) {
	x -= BorderWidth/2 + HorizontalPadding/2
	y -= BorderHeight/2 + GridHeaderLines
	if x < 0 || y < 0 {
		return 0, false
	}

	col := x / CellWidth
	row := y / CellHeight
	if col >= g.columns || row >= g.rows {
		return 0, false
	}

	idx := (g.offset+row)*g.columns + col
	if idx >= len(g.results) {
		return 0, false
	}
	return idx, true
}

// ClickAt selects the card under a click. Returns false when locked or when
// the click hit no card.
func (g *Grid) ClickAt(x, y int) bool {
	if g.scrollLocked {
		return false
	}
	idx, ok := g.CellAt(x, y)
	if !ok {
		return false
	}
	g.setCursor(idx)
	return true
}

// ToggleFilter activates the filter input
func (g *Grid) ToggleFilter() {
	g.filterActive = true
	g.filterInput.Focus()
	g.recalcLayout()
}

// IsFiltering returns true if filter mode is active (showing filtered results)
func (g *Grid) IsFiltering() bool {
	return g.filterActive
}

// IsFilterTyping returns true if filter is active AND input is focused (typing mode)
func (g *Grid) IsFilterTyping() bool {
	return g.filterActive && g.filterInput.Focused()
}

// FilterQuery returns the applied filter text
func (g *Grid) FilterQuery() string {
	return g.filterQuery
}

// ClearFilter deactivates the filter and shows all movies
func (g *Grid) ClearFilter() {
	g.filterActive = false
	g.filterInput.SetValue("")
	g.filterInput.Blur()
	g.applyFilter("")
	g.recalcLayout()
}

func (g *Grid) applyFilter(query string) {
	if query == g.filterQuery && g.results != nil {
		return
	}
	g.filterQuery = query
	g.results = g.runFilter(query)
	g.cursor = 0
	g.offset = 0
}

func (g *Grid) runFilter(query string) []service.FilterResult {
	if g.filter == nil {
		return nil
	}
	return g.filter(query)
}

// Update handles keys and the mouse wheel
func (g *Grid) Update(msg tea.Msg) tea.Cmd {
	if g.scrollLocked {
		return nil
	}

	// Typing into the filter
	if g.IsFilterTyping() {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				g.ClearFilter()
				return nil
			case "enter":
				g.filterInput.Blur()
				return nil
			case "backspace":
				if g.filterInput.Value() == "" {
					g.ClearFilter()
					return nil
				}
			}
		}

		var cmd tea.Cmd
		g.filterInput, cmd = g.filterInput.Update(msg)
		g.applyFilter(g.filterInput.Value())
		return cmd
	}

	if g.filterActive {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				g.ClearFilter()
				return nil
			case "/":
				g.filterInput.Focus()
				return nil
			}
		}
	}

	count := len(g.results)
	if count == 0 {
		return nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "l", "right":
			g.setCursor(g.cursor + 1)
		case "h", "left":
			g.setCursor(g.cursor - 1)
		case "j", "down":
			if g.cursor+g.columns < count {
				g.setCursor(g.cursor + g.columns)
			}
		case "k", "up":
			if g.cursor-g.columns >= 0 {
				g.setCursor(g.cursor - g.columns)
			}
		case "g", "home":
			g.setCursor(0)
		case "G", "end":
			g.setCursor(count - 1)
		case "pgdown", "ctrl+d":
			g.setCursor(g.cursor + g.rows*g.columns)
		case "pgup", "ctrl+u":
			g.setCursor(g.cursor - g.rows*g.columns)
		}

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelDown:
			g.scroll(1)
		case tea.MouseButtonWheelUp:
			g.scroll(-1)
		}
	}

	return nil
}

// View renders the component
func (g *Grid) View() string {
	style := styles.ActiveBorder
	if g.scrollLocked {
		style = styles.InactiveBorder
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(g.width - frameW).
		Height(g.height - frameH).
		Padding(0, 1).
		Render(g.renderContent())
}

func (g *Grid) renderContent() string {
	innerWidth := g.width - BorderWidth - HorizontalPadding

	lines := []string{g.renderHeader(innerWidth)}

	if len(g.results) == 0 {
		msg := "No movies available."
		if g.filterQuery != "" {
			msg = "No matches"
		}
		lines = append(lines, styles.DimStyle.Render(msg))
	} else {
		totalRows := (len(g.results) + g.columns - 1) / g.columns
		end := min(g.offset+g.rows, totalRows)
		for row := g.offset; row < end; row++ {
			lines = append(lines, g.renderRow(row))
		}
	}

	content := strings.Join(lines, "\n")
	if g.filterActive {
		bodyHeight := g.height - BorderHeight - 1
		content = lipgloss.PlaceVertical(bodyHeight, lipgloss.Top, content)
		content += "\n" + g.renderFilterBar()
	}
	return content
}

func (g *Grid) renderHeader(width int) string {
	left := styles.AccentStyle.Render(styles.Truncate(g.title, width/2))

	right := ""
	if n := len(g.results); n > 0 {
		totalRows := (n + g.columns - 1) / g.columns
		var hints []string
		if g.offset > 0 {
			hints = append(hints, "↑ more")
		}
		if g.offset+g.rows < totalRows {
			hints = append(hints, "↓ more")
		}
		hints = append(hints, fmt.Sprintf("%d/%d", g.cursor+1, n))
		right = styles.DimStyle.Render(strings.Join(hints, "  "))
	}

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

func (g *Grid) renderRow(row int) string {
	start := row * g.columns
	end := min(start+g.columns, len(g.results))

	cells := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		cells = append(cells, g.renderCell(g.results[i], i == g.cursor))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (g *Grid) renderCell(result service.FilterResult, selected bool) string {
	style := styles.CellStyle
	titleStyle := styles.SubtitleStyle
	if selected {
		style = styles.CellSelectedStyle
		titleStyle = styles.TitleStyle
	}

	movie := result.Movie
	contentWidth := CellWidth - BorderWidth - HorizontalPadding

	title := styles.Truncate(movie.Title, contentWidth-2)
	line1 := styles.RenderFavorite(g.IsFavorite(movie)) + " " +
		styles.HighlightMatches(title, result.MatchedIndexes, titleStyle)

	info := movie.DisplayYear()
	if !movie.HasVideo() {
		if info != "" {
			info += " · "
		}
		info += "no trailer"
	}
	line2 := styles.DimStyle.Render(info)

	return style.Width(CellWidth - BorderWidth).Render(line1 + "\n" + line2)
}

// renderFilterBar renders the filter input bar
func (g *Grid) renderFilterBar() string {
	input := g.filterInput.View()
	if g.filterQuery == "" {
		return input
	}
	total := len(g.runFilter(""))
	return input + styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", len(g.results), total))
}
