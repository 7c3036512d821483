package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamflix/streamflix/internal/domain"
	"github.com/streamflix/streamflix/internal/service"
	"github.com/streamflix/streamflix/internal/tui/components"
)

var (
	alien      = domain.Movie{ID: "a", Title: "Alien", Year: 1979, VideoURL: "http://cdn.example/alien.mp4"}
	brazil     = domain.Movie{ID: "b", Title: "Brazil", Year: 1985, VideoURL: "http://cdn.example/brazil.mp4"}
	casablanca = domain.Movie{ID: "c", Title: "Casablanca", Year: 1942}
)

type harness struct {
	t        *testing.T
	m        Model
	player   *stubPlayer
	reporter *stubReporter
	backend  *stubBackend
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	backend := &stubBackend{movies: []domain.Movie{alien, brazil, casablanca}}
	player := &stubPlayer{}
	reporter := &stubReporter{}

	catalogSvc := service.NewCatalogService(backend, backend, nil)
	detailSvc := service.NewDetailService(backend, backend, backend, nil)
	playbackSvc := service.NewPlaybackService(player, reporter, nil)

	h := &harness{
		t:        t,
		m:        NewModel(catalogSvc, detailSvc, playbackSvc, Options{Username: "ripley"}),
		player:   player,
		reporter: reporter,
		backend:  backend,
	}
	h.send(tea.WindowSizeMsg{Width: 100, Height: 40})
	h.run(LoadCatalogCmd(catalogSvc))
	require.False(t, h.m.Loading)
	require.Equal(t, 3, h.m.Grid.Len())
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

// run executes a single non-blocking command and feeds its message back
func (h *harness) run(cmd tea.Cmd) tea.Cmd {
	h.t.Helper()
	require.NotNil(h.t, cmd)
	return h.send(cmd())
}

// play presses p on the selected card and completes player startup
func (h *harness) play() {
	h.t.Helper()
	h.run(h.send(keyRunes("p")))
	require.NotNil(h.t, h.m.Session())
	require.True(h.t, h.m.Overlay.IsVisible())
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func leftClick(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func TestModel_CatalogLoaded(t *testing.T) {
	h := newHarness(t)

	assert.Nil(t, h.m.HomeErr)
	movie, ok := h.m.Grid.Selected()
	require.True(t, ok)
	assert.Equal(t, "a", movie.ID)

	view := h.m.View()
	assert.Contains(t, view, "STREAMFLIX")
	assert.Contains(t, view, "ripley")
	assert.Contains(t, view, FooterText)
}

func TestModel_CatalogFailed(t *testing.T) {
	h := newHarness(t)

	cmd := h.send(keyRunes("r"))
	assert.NotNil(t, cmd)
	assert.True(t, h.m.Loading)

	h.send(CatalogFailedMsg{Err: domain.ErrServerOffline})
	assert.False(t, h.m.Loading)
	assert.ErrorIs(t, h.m.HomeErr, domain.ErrServerOffline)
	assert.Contains(t, h.m.View(), "retry")
}

func TestModel_PlayAndEscape(t *testing.T) {
	h := newHarness(t)

	cmd := h.send(keyRunes("p"))
	require.NotNil(t, cmd)
	assert.Contains(t, h.m.StatusMsg, "Starting player")
	assert.Nil(t, h.m.Session(), "not mounted until the player is up")

	h.run(cmd)
	require.NotNil(t, h.m.Session())
	assert.Equal(t, 1, h.player.started)
	assert.True(t, h.m.Overlay.IsVisible())
	assert.False(t, h.m.Overlay.IsPlaceholder())
	assert.True(t, h.m.Grid.ScrollLocked())
	assert.Equal(t, alien.VideoURL, h.player.loaded)

	binding := h.m.Session().Binding()
	h.send(MediaEventMsg{Binding: binding, Event: domain.MediaEvent{Kind: domain.MediaPlay}})
	h.send(MediaEventMsg{Binding: binding, Event: domain.MediaEvent{Kind: domain.MediaTimeUpdate, Position: 12.5}})
	assert.InDelta(t, 12.5, h.m.Overlay.Position(), 0.001)
	h.player.position = 12.5

	h.send(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, h.m.Overlay.IsVisible())
	assert.Nil(t, h.m.Session())
	assert.False(t, h.m.Grid.ScrollLocked(), "scroll lock restored")

	// Neither a second escape nor a late event reports again
	h.send(tea.KeyMsg{Type: tea.KeyEsc})
	h.send(MediaEventMsg{Binding: binding, Event: domain.MediaEvent{Kind: domain.MediaPause, Position: 13}})

	assert.Equal(t, []domain.PlaybackEvent{
		{MovieID: "a", Position: 0, Kind: domain.PlaybackStart},
		{MovieID: "a", Position: 12, Kind: domain.PlaybackStop},
	}, h.reporter.Events())
}

func TestModel_OverlayControls(t *testing.T) {
	h := newHarness(t)
	h.play()
	require.True(t, h.player.paused)

	h.send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.False(t, h.player.paused)

	h.send(tea.KeyMsg{Type: tea.KeyRight})
	assert.InDelta(t, SeekStep, h.player.position, 0.001)

	h.send(tea.KeyMsg{Type: tea.KeyLeft})
	assert.InDelta(t, 0, h.player.position, 0.001)

	// Grid keys are swallowed while the overlay is up
	h.send(keyRunes("l"))
	assert.Equal(t, 0, h.m.Grid.Cursor())
}

func TestModel_BackdropClickCloses(t *testing.T) {
	h := newHarness(t)
	h.play()

	// A click inside the panel is consumed
	x, y, _, _ := h.m.Overlay.PanelRect()
	h.send(leftClick(x+1, y+1))
	assert.True(t, h.m.Overlay.IsVisible())
	assert.Empty(t, h.reporter.Events())

	// The wheel does not scroll the locked grid
	h.send(tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	assert.Equal(t, 0, h.m.Grid.Offset())

	h.send(leftClick(0, 0))
	assert.False(t, h.m.Overlay.IsVisible())
	assert.Nil(t, h.m.Session())
	assert.False(t, h.m.Grid.ScrollLocked())
	assert.Equal(t, 1, h.reporter.count(domain.PlaybackStop))

	// The same click now lands on the home page
	h.send(leftClick(0, 0))
	assert.Equal(t, 1, h.reporter.count(domain.PlaybackStop))
}

func TestModel_NextAndPrevious(t *testing.T) {
	h := newHarness(t)
	h.play()
	old := h.m.Session().Binding()

	h.send(keyRunes("n"))
	assert.Equal(t, "b", h.m.Overlay.Movie().ID)
	assert.Equal(t, brazil.VideoURL, h.player.loaded)
	selected, _ := h.m.Grid.Selected()
	assert.Equal(t, "b", selected.ID)

	// Events from the previous source are dropped
	h.send(MediaEventMsg{Binding: old, Event: domain.MediaEvent{Kind: domain.MediaPlay, Position: 30}})
	assert.Empty(t, h.reporter.Events())

	// Onto a movie without a trailer
	h.send(keyRunes("n"))
	assert.Equal(t, "c", h.m.Overlay.Movie().ID)
	assert.True(t, h.m.Overlay.IsPlaceholder())
	assert.Empty(t, h.player.loaded, "previous trailer unloaded")

	// Back to a trailer goes through player startup again
	cmd := h.send(keyRunes("b"))
	h.run(cmd)
	assert.Equal(t, "b", h.m.Overlay.Movie().ID)
	assert.False(t, h.m.Overlay.IsPlaceholder())
	assert.Equal(t, brazil.VideoURL, h.player.loaded)

	h.send(tea.KeyMsg{Type: tea.KeyEsc})
	events := h.reporter.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.PlaybackEvent{MovieID: "b", Position: 0, Kind: domain.PlaybackStop}, events[0])
}

func TestModel_PlaceholderSkipsPlayer(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.m.Grid.SelectByID("c"))

	h.send(keyRunes("p"))
	require.NotNil(t, h.m.Session())
	assert.True(t, h.m.Overlay.IsPlaceholder())
	assert.Contains(t, h.m.View(), components.PlaceholderText)
	assert.Zero(t, h.player.started)

	h.send(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, h.m.Overlay.IsVisible())
	assert.Empty(t, h.reporter.Events())
}

func TestModel_PlayerStartFailure(t *testing.T) {
	h := newHarness(t)
	h.player.startErr = errors.New("mpv not found")

	h.run(h.send(keyRunes("p")))
	assert.Nil(t, h.m.Session())
	assert.False(t, h.m.Overlay.IsVisible())
	assert.True(t, h.m.StatusIsErr)
	assert.Contains(t, h.m.StatusMsg, "mpv not found")
	assert.False(t, h.m.Grid.ScrollLocked())
}

func TestModel_CtrlCStopsPlayback(t *testing.T) {
	h := newHarness(t)
	h.play()

	cmd := h.send(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, 1, h.reporter.count(domain.PlaybackStop))
}

func TestModel_ClickOpensSelectedCard(t *testing.T) {
	h := newHarness(t)

	// Second card: select only
	h.send(leftClick(2+components.CellWidth, 2+HeaderHeight))
	selected, _ := h.m.Grid.Selected()
	assert.Equal(t, "b", selected.ID)
	assert.Equal(t, ScreenHome, h.m.Screen)

	// Clicking it again opens the detail
	cmd := h.send(leftClick(2+components.CellWidth, 2+HeaderHeight))
	assert.NotNil(t, cmd)
	assert.Equal(t, ScreenDetail, h.m.Screen)
	assert.Equal(t, "b", h.m.Detail.MovieID())
}

func TestModel_DetailFlow(t *testing.T) {
	h := newHarness(t)

	cmd := h.send(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ScreenDetail, h.m.Screen)
	assert.Equal(t, components.DetailLoading, h.m.Detail.State())

	// A late result for another movie is ignored
	h.send(DetailLoadedMsg{MovieID: "b", Detail: service.Detail{Movie: brazil}})
	assert.Equal(t, components.DetailLoading, h.m.Detail.State())

	h.run(cmd)
	require.Equal(t, components.DetailLoaded, h.m.Detail.State())
	assert.Equal(t, "a", h.m.Detail.Detail().Movie.ID)
	assert.False(t, h.m.Detail.Detail().IsFavorite)

	// Favorite toggle applies after the server confirms
	cmd = h.send(keyRunes("f"))
	assert.True(t, h.m.Detail.Busy())
	assert.Nil(t, h.send(keyRunes("f")), "second toggle waits for the first")
	h.run(cmd)
	assert.False(t, h.m.Detail.Busy())
	assert.True(t, h.m.Detail.Detail().IsFavorite)
	assert.True(t, h.m.Grid.IsFavorite(alien))
	assert.Len(t, h.backend.favorites, 1)

	h.run(h.send(keyRunes("f")))
	assert.False(t, h.m.Detail.Detail().IsFavorite)
	assert.False(t, h.m.Grid.IsFavorite(alien))
	assert.Empty(t, h.backend.favorites)

	h.run(h.send(keyRunes("4")))
	assert.Equal(t, 4, h.m.Detail.Detail().Rating)
	assert.Equal(t, 4, h.backend.rating)

	h.send(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ScreenHome, h.m.Screen)
}

func TestModel_DetailNotFound(t *testing.T) {
	h := newHarness(t)
	cmd := h.send(tea.KeyMsg{Type: tea.KeyEnter})

	h.send(DetailFailedMsg{MovieID: "a", Err: domain.ErrMovieNotFound})
	assert.Equal(t, components.DetailNotFound, h.m.Detail.State())

	// Playback keys are inert until the detail loads
	assert.Nil(t, h.send(keyRunes("p")))
	assert.NotNil(t, cmd)
}

func TestModel_Comment(t *testing.T) {
	h := newHarness(t)
	h.run(h.send(tea.KeyMsg{Type: tea.KeyEnter}))

	h.send(keyRunes("c"))
	require.True(t, h.m.InputModal.IsVisible())
	assert.Equal(t, components.InputComment, h.m.InputModal.Purpose())

	h.send(keyRunes("Scary"))
	cmd := h.send(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, h.m.InputModal.IsVisible())

	h.run(cmd)
	comments := h.m.Detail.Detail().Comments
	require.Len(t, comments, 1)
	assert.Equal(t, "Scary", comments[0].Text)
	assert.Equal(t, "Comment posted", h.m.StatusMsg)
}

func TestModel_JumpToTitle(t *testing.T) {
	h := newHarness(t)

	h.send(keyRunes("t"))
	require.True(t, h.m.InputModal.IsVisible())

	h.send(keyRunes("casa"))
	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, h.m.InputModal.IsVisible())

	selected, _ := h.m.Grid.Selected()
	assert.Equal(t, "c", selected.ID)
}

func TestModel_FilterFromHome(t *testing.T) {
	h := newHarness(t)

	h.send(keyRunes("/"))
	require.True(t, h.m.Grid.IsFilterTyping())

	// Typed keys go to the filter, not the shortcuts
	h.send(keyRunes("b"))
	h.send(keyRunes("r"))
	assert.False(t, h.m.Loading)
	assert.Equal(t, "br", h.m.Grid.FilterQuery())
	selected, _ := h.m.Grid.Selected()
	assert.Equal(t, "b", selected.ID)
}

func TestModel_Help(t *testing.T) {
	h := newHarness(t)

	h.send(keyRunes("?"))
	assert.Equal(t, StateHelp, h.m.State)
	assert.Contains(t, h.m.View(), "Press any key to close")

	h.send(keyRunes("x"))
	assert.Equal(t, StateBrowsing, h.m.State)
}
