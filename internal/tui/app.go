package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/streamflix/streamflix/internal/domain"
	"github.com/streamflix/streamflix/internal/service"
	"github.com/streamflix/streamflix/internal/tui/components"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
)

// Screen is the page under the overlays
type Screen int

const (
	ScreenHome Screen = iota
	ScreenDetail
)

const (
	// Header line plus footer line
	ChromeHeight = 2
	HeaderHeight = 1

	// Seek step for the overlay arrow keys, in seconds
	SeekStep = 10
)

// Options carries display settings for the model
type Options struct {
	Username       string
	PosterFallback string
	GridColumns    int
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State  ApplicationState
	Screen Screen
	Ready  bool

	// Services
	CatalogSvc  *service.CatalogService
	DetailSvc   *service.DetailService
	PlaybackSvc *service.PlaybackService

	Keys     KeyMap
	Username string

	// UI Components
	Grid       *components.Grid
	Detail     components.Detail
	Overlay    *components.PlayerOverlay
	InputModal components.InputModal

	// Media session while the overlay is mounted
	session     *service.MediaSession
	pendingPlay string // Movie id waiting for PlayerReadyMsg

	// Home page state
	Loading bool
	HomeErr error

	// Dimensions
	Width  int
	Height int

	// Status bar
	StatusMsg    string
	StatusIsErr  bool
	SpinnerFrame int
}

// NewModel creates a new application model
func NewModel(
	catalogSvc *service.CatalogService,
	detailSvc *service.DetailService,
	playbackSvc *service.PlaybackService,
	opts Options,
) Model {
	overlay := components.NewPlayerOverlay()
	grid := components.NewGrid(catalogSvc.Filter)
	grid.SetTitle("Movies")
	grid.SetMaxColumns(opts.GridColumns)

	return Model{
		State:       StateBrowsing,
		Screen:      ScreenHome,
		CatalogSvc:  catalogSvc,
		DetailSvc:   detailSvc,
		PlaybackSvc: playbackSvc,
		Keys:        DefaultKeyMap(),
		Username:    opts.Username,
		Grid:        grid,
		Detail:      components.NewDetail(opts.PosterFallback),
		Overlay:     &overlay,
		InputModal:  components.NewInputModal(),
		Loading:     true,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		LoadCatalogCmd(m.CatalogSvc),
		TickCmd(100*time.Millisecond),
	)
}

// Session returns the mounted media session, nil when the overlay is closed
func (m Model) Session() *service.MediaSession {
	return m.session
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		return m, TickCmd(100 * time.Millisecond)

	case CatalogLoadedMsg:
		m.Loading = false
		m.HomeErr = nil
		m.Grid.SetFavorites(msg.Catalog.Favorites)
		m.Grid.Reload()
		return m, nil

	case CatalogFailedMsg:
		m.Loading = false
		m.HomeErr = msg.Err
		return m, nil

	case DetailLoadedMsg:
		if m.Screen != ScreenDetail || msg.MovieID != m.Detail.MovieID() {
			return m, nil
		}
		m.Detail.SetLoaded(msg.Detail)
		m.Grid.SetFavorite(msg.Detail.Movie, msg.Detail.IsFavorite)
		return m, nil

	case DetailFailedMsg:
		if m.Screen != ScreenDetail || msg.MovieID != m.Detail.MovieID() {
			return m, nil
		}
		m.Detail.SetError(msg.Err)
		return m, nil

	case FavoriteToggledMsg:
		return m.handleFavoriteToggled(msg)

	case RatedMsg:
		if m.Detail.Detail().Movie.Matches(msg.MovieID) {
			m.Detail.SetRating(msg.Rating)
		}
		return m, m.setStatus(fmt.Sprintf("Rated %d/%d", msg.Rating, domain.MaxRating), false)

	case CommentPostedMsg:
		if m.Detail.Detail().Movie.Matches(msg.MovieID) {
			m.Detail.AddComment(msg.Comment)
		}
		return m, m.setStatus("Comment posted", false)

	case PlayerReadyMsg:
		return m.handlePlayerReady(msg)

	case MediaEventMsg:
		if m.session == nil || msg.Binding != m.session.Binding() {
			// Stale binding, stop listening to it
			return m, nil
		}
		m.session.HandleEvent(msg.Binding, msg.Event)
		m.Overlay.Apply(msg.Event)
		return m, WaitMediaEventCmd(msg.Binding)

	case MediaClosedMsg:
		return m, nil

	case ErrMsg:
		return m, m.setStatus(msg.Error(), true)

	case StatusMsg:
		return m, m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	return m, nil
}

// setStatus shows a message in the footer and schedules its removal
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.StatusMsg = text
	m.StatusIsErr = isErr
	delay := 3 * time.Second
	if isErr {
		delay = 5 * time.Second
	}
	return ClearStatusCmd(delay)
}

func (m Model) handleFavoriteToggled(msg FavoriteToggledMsg) (tea.Model, tea.Cmd) {
	m.Detail.SetBusy(false)
	if msg.Err != nil {
		return m, m.setStatus("Could not update favorites: "+msg.Err.Error(), true)
	}

	if m.Detail.Detail().Movie.Matches(msg.Movie.ID) {
		m.Detail.SetFavorite(msg.Favorite)
	}
	m.Grid.SetFavorite(msg.Movie, msg.Favorite)

	if msg.Favorite {
		return m, m.setStatus("Added to favorites: "+msg.Movie.Title, false)
	}
	return m, m.setStatus("Removed from favorites: "+msg.Movie.Title, false)
}

func (m Model) handlePlayerReady(msg PlayerReadyMsg) (tea.Model, tea.Cmd) {
	if msg.Movie.ID != m.pendingPlay {
		return m, nil
	}
	m.pendingPlay = ""
	m.StatusMsg = ""

	if msg.Err != nil {
		if m.session != nil {
			m.Overlay.SetError("player unavailable")
		}
		return m, m.setStatus("Could not start player: "+msg.Err.Error(), true)
	}

	if m.session != nil {
		return m, m.switchSource(msg.Movie)
	}
	return m, m.mountPlayer(msg.Movie)
}

// playMovie opens the player overlay for movie. The player process is
// brought up first in the background; movies without a trailer mount
// straight into the placeholder.
func (m *Model) playMovie(movie domain.Movie) tea.Cmd {
	if m.session != nil || m.pendingPlay != "" {
		return nil
	}
	if !movie.HasVideo() {
		return m.mountPlayer(movie)
	}

	m.pendingPlay = movie.ID
	m.StatusMsg = "Starting player..."
	m.StatusIsErr = false
	return PreparePlayerCmd(m.PlaybackSvc, movie)
}

// mountPlayer mounts a media session on movie and starts listening to it
func (m *Model) mountPlayer(movie domain.Movie) tea.Cmd {
	session := m.PlaybackSvc.NewSession()

	binding, err := session.Mount(movie, m.Grid, m.Overlay.Hide)
	if err != nil {
		session.Unmount()
		return m.setStatus("Could not play trailer: "+err.Error(), true)
	}

	m.session = session
	m.Overlay.Show(movie, binding != nil)
	return WaitMediaEventCmd(binding)
}

// switchSource moves the mounted session to movie
func (m *Model) switchSource(movie domain.Movie) tea.Cmd {
	binding, err := m.session.ChangeSource(movie)
	if err != nil {
		m.closePlayer()
		return m.setStatus("Could not play trailer: "+err.Error(), true)
	}

	m.Overlay.Show(movie, binding != nil)
	m.Grid.SelectByID(movie.ID)
	return WaitMediaEventCmd(binding)
}

// stepSource switches the overlay to the catalog neighbor offset entries away
func (m *Model) stepSource(offset int) tea.Cmd {
	if m.session == nil || m.pendingPlay != "" {
		return nil
	}
	next, ok := m.CatalogSvc.Neighbor(m.session.Movie().ID, offset)
	if !ok || next.Matches(m.session.Movie().ID) {
		return nil
	}

	// The player may not be running yet when coming from a placeholder
	if next.HasVideo() && !m.session.HasMedia() {
		m.pendingPlay = next.ID
		return PreparePlayerCmd(m.PlaybackSvc, next)
	}
	return m.switchSource(next)
}

// closePlayer reports the final stop and tears the overlay down
func (m *Model) closePlayer() {
	if m.session == nil {
		m.Overlay.Hide()
		return
	}
	m.session.Close()
	m.session.Unmount()
	m.session = nil
	m.pendingPlay = ""
}

// openDetail shows the detail page for movie and starts loading it
func (m *Model) openDetail(movie domain.Movie) tea.Cmd {
	m.Screen = ScreenDetail
	m.Detail.SetLoading(movie.ID)
	return LoadDetailCmd(m.DetailSvc, movie.ID)
}

// handleKeyMsg routes keys to the top-most layer
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.closePlayer()
		return m, tea.Quit
	}

	if m.InputModal.IsVisible() {
		return m.handleInputKey(msg)
	}

	if m.Overlay.IsVisible() {
		return m.handleOverlayKey(msg)
	}

	if m.State == StateHelp {
		m.State = StateBrowsing
		return m, nil
	}

	switch m.Screen {
	case ScreenDetail:
		return m.handleDetailKey(msg)
	default:
		return m.handleHomeKey(msg)
	}
}

// handleOverlayKey drives the mounted session. Every key is consumed.
func (m Model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Escape):
		m.closePlayer()
	case key.Matches(msg, m.Keys.Quit):
		m.closePlayer()
		return m, tea.Quit
	case m.session == nil:
	case key.Matches(msg, m.Keys.TogglePause):
		m.session.TogglePause()
	case key.Matches(msg, m.Keys.SeekBack):
		m.session.SeekRelative(-SeekStep)
	case key.Matches(msg, m.Keys.SeekForward):
		m.session.SeekRelative(SeekStep)
	case key.Matches(msg, m.Keys.NextMovie):
		return m, m.stepSource(1)
	case key.Matches(msg, m.Keys.PrevMovie):
		return m, m.stepSource(-1)
	}
	return m, nil
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Grid.IsFilterTyping() {
		return m, m.Grid.Update(msg)
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Help):
		m.State = StateHelp
		return m, nil
	case key.Matches(msg, m.Keys.Filter):
		if !m.Grid.IsFiltering() {
			m.Grid.ToggleFilter()
			return m, nil
		}
	case key.Matches(msg, m.Keys.Jump):
		m.InputModal.Show(components.InputJump, "Jump to title", "title...")
		return m, nil
	case key.Matches(msg, m.Keys.Refresh):
		m.Loading = true
		return m, LoadCatalogCmd(m.CatalogSvc)
	case key.Matches(msg, m.Keys.Enter):
		if movie, ok := m.Grid.Selected(); ok {
			return m, m.openDetail(movie)
		}
		return m, nil
	case key.Matches(msg, m.Keys.Play):
		if movie, ok := m.Grid.Selected(); ok {
			return m, m.playMovie(movie)
		}
		return m, nil
	}

	return m, m.Grid.Update(msg)
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	loaded := m.Detail.State() == components.DetailLoaded
	detail := m.Detail.Detail()

	switch {
	case key.Matches(msg, m.Keys.Back):
		m.Screen = ScreenHome
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Help):
		m.State = StateHelp
	case key.Matches(msg, m.Keys.Refresh):
		m.Detail.SetLoading(m.Detail.MovieID())
		return m, LoadDetailCmd(m.DetailSvc, m.Detail.MovieID())
	case key.Matches(msg, m.Keys.ScrollUp):
		m.Detail.ScrollBy(-1)
	case key.Matches(msg, m.Keys.ScrollDn):
		m.Detail.ScrollBy(1)
	case !loaded:
	case key.Matches(msg, m.Keys.Play), key.Matches(msg, m.Keys.Enter):
		return m, m.playMovie(detail.Movie)
	case key.Matches(msg, m.Keys.Favorite):
		if m.Detail.Busy() {
			return m, nil
		}
		m.Detail.SetBusy(true)
		return m, ToggleFavoriteCmd(m.DetailSvc, detail)
	case key.Matches(msg, m.Keys.Rate):
		stars := int(msg.String()[0] - '0')
		return m, RateCmd(m.DetailSvc, detail.Movie.ID, stars)
	case key.Matches(msg, m.Keys.Comment):
		m.InputModal.Show(components.InputComment, "Comment on "+detail.Movie.Title, "write a comment...")
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	purpose := m.InputModal.Purpose()

	var cmd tea.Cmd
	var submitted bool
	m.InputModal, cmd, submitted = m.InputModal.Update(msg)
	if !submitted {
		return m, cmd
	}

	value := strings.TrimSpace(m.InputModal.Value())
	m.InputModal.Hide()
	if value == "" {
		return m, nil
	}

	switch purpose {
	case components.InputComment:
		return m, CommentCmd(m.DetailSvc, m.Detail.Detail().Movie.ID, value)
	case components.InputJump:
		return m, m.jumpTo(value)
	}
	return m, nil
}

// jumpTo selects the closest title match in the grid
func (m *Model) jumpTo(query string) tea.Cmd {
	ranked := m.CatalogSvc.Rank(query)
	if len(ranked) == 0 {
		return m.setStatus("No title matches "+query, true)
	}
	if m.Grid.IsFiltering() {
		m.Grid.ClearFilter()
	}
	m.Grid.SelectByID(ranked[0].ID)
	return nil
}

// handleMouseMsg routes clicks and the wheel. While the overlay is up a
// click outside its panel closes it and a click inside is consumed.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	leftClick := msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft

	if m.Overlay.IsVisible() {
		if leftClick && !m.Overlay.Contains(msg.X, msg.Y) {
			m.closePlayer()
			return m, nil
		}
		if !leftClick && m.Screen == ScreenHome {
			// Locked while mounted, so this is a no-op for the grid
			return m, m.Grid.Update(msg)
		}
		return m, nil
	}

	if m.InputModal.IsVisible() || m.State == StateHelp {
		return m, nil
	}

	switch m.Screen {
	case ScreenHome:
		if !leftClick {
			return m, m.Grid.Update(msg)
		}
		before, hadSelection := m.Grid.Selected()
		if !m.Grid.ClickAt(msg.X, msg.Y-HeaderHeight) {
			return m, nil
		}
		// A click on the selected card opens it
		if after, _ := m.Grid.Selected(); hadSelection && after.ID == before.ID {
			return m, m.openDetail(after)
		}

	case ScreenDetail:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.Detail.ScrollBy(-1)
		case tea.MouseButtonWheelDown:
			m.Detail.ScrollBy(1)
		}
	}
	return m, nil
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}
	contentHeight := m.Height - ChromeHeight
	m.Grid.SetSize(m.Width, contentHeight)
	m.Detail.SetSize(m.Width, contentHeight)
	m.Overlay.SetSize(m.Width, m.Height)
}
