package tui

import (
	"context"
	"sync"

	"github.com/streamflix/streamflix/internal/domain"
)

// stubPlayer is an in-memory media player
type stubPlayer struct {
	mu       sync.Mutex
	started  int
	startErr error
	loaded   string
	paused   bool
	position float64
	current  *stubBinding
	ejects   int
}

func (p *stubPlayer) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started++
	return p.startErr
}

func (p *stubPlayer) Shutdown() error { return nil }

func (p *stubPlayer) Play() error {
	p.paused = false
	return nil
}

func (p *stubPlayer) Pause() error {
	p.paused = true
	return nil
}

func (p *stubPlayer) TogglePause() error {
	p.paused = !p.paused
	return nil
}

func (p *stubPlayer) Seek(position float64) error {
	p.position = position
	return nil
}

func (p *stubPlayer) SeekRelative(delta float64) error {
	p.position += delta
	return nil
}

func (p *stubPlayer) Load(url string) error {
	p.loaded = url
	return nil
}

func (p *stubPlayer) Position() (float64, error) {
	return p.position, nil
}

func (p *stubPlayer) Eject() error {
	p.ejects++
	p.loaded = ""
	return nil
}

func (p *stubPlayer) Bind() (domain.MediaBinding, error) {
	if p.current != nil && !p.current.released {
		return nil, domain.ErrMediaInUse
	}
	b := &stubBinding{events: make(chan domain.MediaEvent, 4)}
	p.current = b
	return b, nil
}

type stubBinding struct {
	events   chan domain.MediaEvent
	released bool
}

func (b *stubBinding) Events() <-chan domain.MediaEvent { return b.events }

func (b *stubBinding) Release() {
	if b.released {
		return
	}
	b.released = true
	close(b.events)
}

// stubReporter records playback notifications
type stubReporter struct {
	mu     sync.Mutex
	events []domain.PlaybackEvent
}

func (r *stubReporter) Notify(ev domain.PlaybackEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *stubReporter) Events() []domain.PlaybackEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.PlaybackEvent(nil), r.events...)
}

func (r *stubReporter) count(kind domain.PlaybackKind) int {
	n := 0
	for _, ev := range r.Events() {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// stubBackend serves the catalog, favorites and social repositories
type stubBackend struct {
	mu        sync.Mutex
	movies    []domain.Movie
	favorites []domain.Favorite
	rating    int
}

func (b *stubBackend) GetMovies(ctx context.Context) ([]domain.Movie, error) {
	return b.movies, nil
}

func (b *stubBackend) GetFavorites(ctx context.Context) ([]domain.Favorite, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Favorite(nil), b.favorites...), nil
}

func (b *stubBackend) AddFavorite(ctx context.Context, fav domain.Favorite) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.favorites = append(b.favorites, fav)
	return nil
}

func (b *stubBackend) RemoveFavorite(ctx context.Context, movieID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.favorites[:0]
	for _, f := range b.favorites {
		if f.MovieID != movieID {
			kept = append(kept, f)
		}
	}
	b.favorites = kept
	return nil
}

func (b *stubBackend) GetRating(ctx context.Context, movieID string) (int, error) {
	return b.rating, nil
}

func (b *stubBackend) SetRating(ctx context.Context, movieID string, rating int) error {
	b.rating = rating
	return nil
}

func (b *stubBackend) GetComments(ctx context.Context, movieID string) ([]domain.Comment, error) {
	return nil, nil
}

func (b *stubBackend) AddComment(ctx context.Context, movieID, text string) (*domain.Comment, error) {
	return &domain.Comment{MovieID: movieID, Author: "me", Text: text}, nil
}
