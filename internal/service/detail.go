package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/streamflix/streamflix/internal/domain"
)

// Detail is everything the movie detail view shows
type Detail struct {
	Movie      domain.Movie
	IsFavorite bool
	Rating     int // Current user's stars, 0 when unrated
	Comments   []domain.Comment
}

// DetailService loads a single movie with its favorite state and social data
type DetailService struct {
	catalog   domain.CatalogRepository
	favorites domain.FavoritesRepository
	social    domain.SocialRepository
	logger    *slog.Logger
}

// NewDetailService creates a new detail service
func NewDetailService(
	catalog domain.CatalogRepository,
	favorites domain.FavoritesRepository,
	social domain.SocialRepository,
	logger *slog.Logger,
) *DetailService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DetailService{
		catalog:   catalog,
		favorites: favorites,
		social:    social,
		logger:    logger,
	}
}

// Load resolves id against the catalog under either identifier and reports
// whether the movie is a favorite. The catalog and favorites are fetched
// concurrently; failure of either fails the load. Rating and comments are
// best effort.
func (s *DetailService) Load(ctx context.Context, id string) (Detail, error) {
	var (
		movies []domain.Movie
		favs   []domain.Favorite
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		movies, err = s.catalog.GetMovies(gctx)
		if err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		favs, err = s.favorites.GetFavorites(gctx)
		if err != nil {
			return fmt.Errorf("failed to load favorites: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to load movie detail", "error", err, "movieID", id)
		return Detail{}, err
	}

	var (
		movie domain.Movie
		found bool
	)
	for _, m := range movies {
		if m.Matches(id) {
			movie, found = m, true
			break
		}
	}
	if !found {
		return Detail{}, domain.ErrMovieNotFound
	}

	detail := Detail{
		Movie:      movie,
		IsFavorite: favoriteOf(favoriteSet(favs), movie),
	}

	if s.social != nil {
		s.loadSocial(ctx, &detail)
	}

	return detail, nil
}

func (s *DetailService) loadSocial(ctx context.Context, detail *Detail) {
	var g errgroup.Group
	g.Go(func() error {
		rating, err := s.social.GetRating(ctx, detail.Movie.ID)
		if err != nil {
			s.logger.Warn("failed to load rating", "error", err, "movieID", detail.Movie.ID)
			return nil
		}
		detail.Rating = rating
		return nil
	})
	g.Go(func() error {
		comments, err := s.social.GetComments(ctx, detail.Movie.ID)
		if err != nil {
			s.logger.Warn("failed to load comments", "error", err, "movieID", detail.Movie.ID)
			return nil
		}
		detail.Comments = comments
		return nil
	})
	g.Wait()
}

// ToggleFavorite flips the favorite state on the server and returns the new
// state. On failure the unchanged state is returned with the error.
func (s *DetailService) ToggleFavorite(ctx context.Context, detail Detail) (bool, error) {
	m := detail.Movie

	if detail.IsFavorite {
		if err := s.favorites.RemoveFavorite(ctx, m.ID); err != nil {
			s.logger.Error("failed to remove favorite", "error", err, "movieID", m.ID)
			return true, err
		}
		s.logger.Info("removed favorite", "movieID", m.ID, "title", m.Title)
		return false, nil
	}

	if err := s.favorites.AddFavorite(ctx, m.Favorite()); err != nil {
		s.logger.Error("failed to add favorite", "error", err, "movieID", m.ID)
		return false, err
	}
	s.logger.Info("added favorite", "movieID", m.ID, "title", m.Title)
	return true, nil
}

// Rate stores the user's star rating for a movie
func (s *DetailService) Rate(ctx context.Context, movieID string, stars int) error {
	if stars < domain.MinRating || stars > domain.MaxRating {
		return domain.ErrInvalidRating
	}
	if err := s.social.SetRating(ctx, movieID, stars); err != nil {
		s.logger.Error("failed to rate movie", "error", err, "movieID", movieID, "rating", stars)
		return err
	}
	return nil
}

// Comment posts a comment; blank text is rejected without a request
func (s *DetailService) Comment(ctx context.Context, movieID, text string) (*domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("comment is empty")
	}
	comment, err := s.social.AddComment(ctx, movieID, text)
	if err != nil {
		s.logger.Error("failed to post comment", "error", err, "movieID", movieID)
		return nil, err
	}
	return comment, nil
}
