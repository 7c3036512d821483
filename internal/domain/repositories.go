package domain

import (
	"context"
)

// CatalogRepository provides access to the movie catalog
type CatalogRepository interface {
	// GetMovies returns the full catalog in server order
	GetMovies(ctx context.Context) ([]Movie, error)
}

// FavoritesRepository manages the signed-in user's favorites
type FavoritesRepository interface {
	// GetFavorites returns all favorites of the current user
	GetFavorites(ctx context.Context) ([]Favorite, error)

	// AddFavorite bookmarks a movie, carrying its display fields
	AddFavorite(ctx context.Context, fav Favorite) error

	// RemoveFavorite deletes the bookmark keyed by movie identifier
	RemoveFavorite(ctx context.Context, movieID string) error
}

// SocialRepository provides ratings and comments
type SocialRepository interface {
	// GetRating returns the current user's rating (0 when unrated)
	GetRating(ctx context.Context, movieID string) (int, error)

	// SetRating stores the current user's rating
	SetRating(ctx context.Context, movieID string, rating int) error

	// GetComments returns the comments on a movie, oldest first
	GetComments(ctx context.Context, movieID string) ([]Comment, error)

	// AddComment posts a comment as the current user
	AddComment(ctx context.Context, movieID, text string) (*Comment, error)
}

// AuthResult contains the result of a successful login
type AuthResult struct {
	Token    string // Bearer token for API calls
	Username string // Display name
}

// AuthRepository performs account operations against the backend
type AuthRepository interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	ResetPassword(ctx context.Context, token, password string) error
}

// PlaybackReporter receives playback lifecycle notifications.
// Notify must not block and must not fail the caller.
type PlaybackReporter interface {
	Notify(event PlaybackEvent)
}
