package tui

import (
	"github.com/streamflix/streamflix/internal/domain"
	"github.com/streamflix/streamflix/internal/service"
)

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// CatalogLoadedMsg carries the home page data
type CatalogLoadedMsg struct {
	Catalog service.Catalog
}

// CatalogFailedMsg signals the home page fetch failed
type CatalogFailedMsg struct {
	Err error
}

// DetailLoadedMsg carries a fetched detail. MovieID is the id the fetch was
// started for, so late results for another movie can be dropped.
type DetailLoadedMsg struct {
	MovieID string
	Detail  service.Detail
}

// DetailFailedMsg signals the detail fetch failed
type DetailFailedMsg struct {
	MovieID string
	Err     error
}

// FavoriteToggledMsg carries the outcome of a favorite toggle. On error
// Favorite holds the unchanged flag.
type FavoriteToggledMsg struct {
	Movie    domain.Movie
	Favorite bool
	Err      error
}

// RatedMsg confirms a stored rating
type RatedMsg struct {
	MovieID string
	Rating  int
}

// CommentPostedMsg carries a posted comment
type CommentPostedMsg struct {
	MovieID string
	Comment domain.Comment
}

// PlayerReadyMsg signals the media player is up and a movie can be mounted
type PlayerReadyMsg struct {
	Movie domain.Movie
	Err   error
}

// MediaEventMsg carries one event read from a binding
type MediaEventMsg struct {
	Binding domain.MediaBinding
	Event   domain.MediaEvent
}

// MediaClosedMsg signals a binding's event channel was closed
type MediaClosedMsg struct {
	Binding domain.MediaBinding
}

// TickMsg is a general tick message for animations
type TickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
