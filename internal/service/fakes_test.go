package service

import (
	"context"
	"errors"
	"sync"

	"github.com/streamflix/streamflix/internal/domain"
)

// fakePlayer records calls and hands out fakeBindings
type fakePlayer struct {
	calls    []string
	position float64
	posErr   error
	loadErr  error
	loaded   string
	paused   bool

	current  *fakeBinding
	bindings []*fakeBinding
	started  int
	startErr error
	shutdown bool
}

func (p *fakePlayer) Start(ctx context.Context) error {
	p.started++
	return p.startErr
}

func (p *fakePlayer) Play() error {
	p.calls = append(p.calls, "play")
	p.paused = false
	return nil
}

func (p *fakePlayer) Pause() error {
	p.calls = append(p.calls, "pause")
	p.paused = true
	return nil
}

func (p *fakePlayer) TogglePause() error {
	p.calls = append(p.calls, "toggle")
	p.paused = !p.paused
	return nil
}

func (p *fakePlayer) Seek(position float64) error {
	p.calls = append(p.calls, "seek")
	p.position = position
	return nil
}

func (p *fakePlayer) SeekRelative(delta float64) error {
	p.calls = append(p.calls, "seek-relative")
	p.position += delta
	return nil
}

func (p *fakePlayer) Load(url string) error {
	p.calls = append(p.calls, "load")
	if p.loadErr != nil {
		return p.loadErr
	}
	p.loaded = url
	return nil
}

func (p *fakePlayer) Position() (float64, error) {
	return p.position, p.posErr
}

func (p *fakePlayer) Eject() error {
	p.calls = append(p.calls, "eject")
	p.loaded = ""
	return nil
}

func (p *fakePlayer) Bind() (domain.MediaBinding, error) {
	if p.current != nil && !p.current.released {
		return nil, domain.ErrMediaInUse
	}
	p.calls = append(p.calls, "bind")
	b := &fakeBinding{player: p, events: make(chan domain.MediaEvent, 8)}
	p.current = b
	p.bindings = append(p.bindings, b)
	return b, nil
}

func (p *fakePlayer) Shutdown() error {
	p.shutdown = true
	return nil
}

type fakeBinding struct {
	player   *fakePlayer
	events   chan domain.MediaEvent
	released bool
}

func (b *fakeBinding) Events() <-chan domain.MediaEvent { return b.events }

func (b *fakeBinding) Release() {
	if b.released {
		return
	}
	b.released = true
	b.player.calls = append(b.player.calls, "release")
	close(b.events)
}

// fakeReporter collects notifications synchronously
type fakeReporter struct {
	mu      sync.Mutex
	events  []domain.PlaybackEvent
	flushed bool
}

func (r *fakeReporter) Notify(ev domain.PlaybackEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *fakeReporter) Flush(ctx context.Context) error {
	r.flushed = true
	return nil
}

func (r *fakeReporter) Events() []domain.PlaybackEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.PlaybackEvent(nil), r.events...)
}

type fakeLock struct {
	locked bool
	sets   int
}

func (l *fakeLock) ScrollLocked() bool { return l.locked }

func (l *fakeLock) SetScrollLocked(locked bool) {
	l.locked = locked
	l.sets++
}

// fakeRepo implements the catalog, favorites, social and auth repositories
type fakeRepo struct {
	mu sync.Mutex

	movies    []domain.Movie
	moviesErr error

	favorites []domain.Favorite
	favErr    error
	addErr    error
	removeErr error
	added     []domain.Favorite
	removed   []string

	rating    int
	ratingErr error
	rated     map[string]int
	comments  []domain.Comment
	commErr   error

	loginResult *domain.AuthResult
	loginErr    error
	resets      int
}

var errBoom = errors.New("boom")

func (r *fakeRepo) GetMovies(ctx context.Context) ([]domain.Movie, error) {
	return r.movies, r.moviesErr
}

func (r *fakeRepo) GetFavorites(ctx context.Context) ([]domain.Favorite, error) {
	return r.favorites, r.favErr
}

func (r *fakeRepo) AddFavorite(ctx context.Context, fav domain.Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.addErr != nil {
		return r.addErr
	}
	r.added = append(r.added, fav)
	return nil
}

func (r *fakeRepo) RemoveFavorite(ctx context.Context, movieID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.removeErr != nil {
		return r.removeErr
	}
	r.removed = append(r.removed, movieID)
	return nil
}

func (r *fakeRepo) GetRating(ctx context.Context, movieID string) (int, error) {
	return r.rating, r.ratingErr
}

func (r *fakeRepo) SetRating(ctx context.Context, movieID string, rating int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rated == nil {
		r.rated = make(map[string]int)
	}
	r.rated[movieID] = rating
	return nil
}

func (r *fakeRepo) GetComments(ctx context.Context, movieID string) ([]domain.Comment, error) {
	return r.comments, r.commErr
}

func (r *fakeRepo) AddComment(ctx context.Context, movieID, text string) (*domain.Comment, error) {
	return &domain.Comment{MovieID: movieID, Text: text, Author: "me"}, nil
}

func (r *fakeRepo) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	return r.loginResult, r.loginErr
}

func (r *fakeRepo) ResetPassword(ctx context.Context, token, password string) error {
	r.resets++
	return nil
}

// memStore is an in-memory SessionStore
type memStore struct {
	token, user string
}

func (s *memStore) Token() string    { return s.token }
func (s *memStore) Username() string { return s.user }
func (s *memStore) Close() error     { return nil }

func (s *memStore) SaveSession(token, username string) error {
	s.token, s.user = token, username
	return nil
}

func (s *memStore) ClearSession() error {
	s.token, s.user = "", ""
	return nil
}
