package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	sfuzzy "github.com/sahilm/fuzzy"

	"github.com/streamflix/streamflix/internal/domain"
)

// Catalog is the home page data: the movies plus the ids the user bookmarked
type Catalog struct {
	Movies    []domain.Movie
	Favorites map[string]bool // Movie ids (canonical and legacy) in favorites
}

// IsFavorite reports whether m is bookmarked under either identifier
func (c Catalog) IsFavorite(m domain.Movie) bool {
	return favoriteOf(c.Favorites, m)
}

// FilterResult is a filtered movie with match metadata for highlighting
type FilterResult struct {
	Movie          domain.Movie
	MatchedIndexes []int // Character positions that matched
}

// titleIndex implements sahilm/fuzzy.Source over pre-lowered titles
type titleIndex struct {
	movies      []domain.Movie
	lowerTitles []string
}

func (idx *titleIndex) String(i int) string { return idx.lowerTitles[i] }

func (idx *titleIndex) Len() int { return len(idx.movies) }

// CatalogService loads the catalog and answers title queries against it
type CatalogService struct {
	catalog   domain.CatalogRepository
	favorites domain.FavoritesRepository
	logger    *slog.Logger

	mu    sync.RWMutex
	index *titleIndex
}

// NewCatalogService creates a new catalog service
func NewCatalogService(catalog domain.CatalogRepository, favorites domain.FavoritesRepository, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{
		catalog:   catalog,
		favorites: favorites,
		logger:    logger,
		index:     &titleIndex{},
	}
}

// FetchMovies loads the full catalog and rebuilds the title index
func (s *CatalogService) FetchMovies(ctx context.Context) ([]domain.Movie, error) {
	movies, err := s.catalog.GetMovies(ctx)
	if err != nil {
		s.logger.Error("failed to fetch movies", "error", err)
		return nil, err
	}

	idx := &titleIndex{
		movies:      movies,
		lowerTitles: make([]string, len(movies)),
	}
	for i, m := range movies {
		idx.lowerTitles[i] = strings.ToLower(m.Title)
	}

	s.mu.Lock()
	s.index = idx
	s.mu.Unlock()

	s.logger.Debug("catalog loaded", "count", len(movies))
	return movies, nil
}

// FetchHome loads the catalog and the favorite markers. A favorites failure
// (e.g. signed out) only hides the markers; a catalog failure is returned.
func (s *CatalogService) FetchHome(ctx context.Context) (Catalog, error) {
	movies, err := s.FetchMovies(ctx)
	if err != nil {
		return Catalog{}, err
	}

	favs, err := s.favorites.GetFavorites(ctx)
	if err != nil {
		s.logger.Warn("failed to fetch favorites for markers", "error", err)
		favs = nil
	}

	return Catalog{Movies: movies, Favorites: favoriteSet(favs)}, nil
}

// Filter fuzzy-matches titles. An empty query returns the catalog in server order.
func (s *CatalogService) Filter(query string) []FilterResult {
	s.mu.RLock()
	idx := s.index
	s.mu.RUnlock()

	if query == "" {
		results := make([]FilterResult, len(idx.movies))
		for i, m := range idx.movies {
			results[i] = FilterResult{Movie: m}
		}
		return results
	}

	matches := sfuzzy.FindFrom(strings.ToLower(query), idx)
	results := make([]FilterResult, len(matches))
	for i, match := range matches {
		results[i] = FilterResult{
			Movie:          idx.movies[match.Index],
			MatchedIndexes: match.MatchedIndexes,
		}
	}
	return results
}

// Rank orders titles containing query's characters by edit distance,
// closest first. Used for jump-to-title.
func (s *CatalogService) Rank(query string) []domain.Movie {
	s.mu.RLock()
	idx := s.index
	s.mu.RUnlock()

	if query == "" || idx.Len() == 0 {
		return nil
	}

	ranks := fuzzy.RankFindFold(query, idx.lowerTitles)
	sort.Stable(ranks)

	results := make([]domain.Movie, 0, len(ranks))
	for _, r := range ranks {
		results = append(results, idx.movies[r.OriginalIndex])
	}
	return results
}

// Neighbor returns the movie offset positions away from id in catalog
// order, wrapping around. ok is false when id is unknown or the catalog is empty.
func (s *CatalogService) Neighbor(id string, offset int) (domain.Movie, bool) {
	s.mu.RLock()
	movies := s.index.movies
	s.mu.RUnlock()

	n := len(movies)
	for i, m := range movies {
		if m.Matches(id) {
			j := ((i+offset)%n + n) % n
			return movies[j], true
		}
	}
	return domain.Movie{}, false
}

// favoriteSet collects bookmarked movie ids
func favoriteSet(favs []domain.Favorite) map[string]bool {
	set := make(map[string]bool, len(favs))
	for _, f := range favs {
		if f.MovieID != "" {
			set[f.MovieID] = true
		}
	}
	return set
}

func favoriteOf(set map[string]bool, m domain.Movie) bool {
	if set[m.ID] {
		return true
	}
	return m.LegacyID != "" && set[m.LegacyID]
}
