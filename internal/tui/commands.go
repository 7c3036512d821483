package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/streamflix/streamflix/internal/domain"
	"github.com/streamflix/streamflix/internal/service"
)

// Command factories for async operations

// LoadCatalogCmd fetches the catalog and favorite markers
func LoadCatalogCmd(svc *service.CatalogService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		catalog, err := svc.FetchHome(ctx)
		if err != nil {
			return CatalogFailedMsg{Err: err}
		}
		return CatalogLoadedMsg{Catalog: catalog}
	}
}

// LoadDetailCmd fetches one movie with its favorite flag, rating and comments
func LoadDetailCmd(svc *service.DetailService, movieID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		detail, err := svc.Load(ctx, movieID)
		if err != nil {
			return DetailFailedMsg{MovieID: movieID, Err: err}
		}
		return DetailLoadedMsg{MovieID: movieID, Detail: detail}
	}
}

// ToggleFavoriteCmd adds or removes the favorite for detail
func ToggleFavoriteCmd(svc *service.DetailService, detail service.Detail) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		favorite, err := svc.ToggleFavorite(ctx, detail)
		return FavoriteToggledMsg{Movie: detail.Movie, Favorite: favorite, Err: err}
	}
}

// RateCmd stores the user's rating
func RateCmd(svc *service.DetailService, movieID string, stars int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := svc.Rate(ctx, movieID, stars); err != nil {
			return ErrMsg{Err: err, Context: "rating movie"}
		}
		return RatedMsg{MovieID: movieID, Rating: stars}
	}
}

// CommentCmd posts a comment
func CommentCmd(svc *service.DetailService, movieID, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		comment, err := svc.Comment(ctx, movieID, text)
		if err != nil {
			return ErrMsg{Err: err, Context: "posting comment"}
		}
		return CommentPostedMsg{MovieID: movieID, Comment: *comment}
	}
}

// PreparePlayerCmd brings the media player up before movie is mounted.
// Movies without a trailer skip the player entirely.
func PreparePlayerCmd(svc *service.PlaybackService, movie domain.Movie) tea.Cmd {
	return func() tea.Msg {
		if !movie.HasVideo() {
			return PlayerReadyMsg{Movie: movie}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		return PlayerReadyMsg{Movie: movie, Err: svc.Prepare(ctx)}
	}
}

// WaitMediaEventCmd reads one event from binding. The model re-issues it
// after each event while the binding is current.
func WaitMediaEventCmd(binding domain.MediaBinding) tea.Cmd {
	if binding == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-binding.Events()
		if !ok {
			return MediaClosedMsg{Binding: binding}
		}
		return MediaEventMsg{Binding: binding, Event: ev}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
