package service

import (
	"log/slog"
	"math"

	"github.com/streamflix/streamflix/internal/domain"
)

// ScrollLock is the background view's scroll suppression flag
type ScrollLock interface {
	ScrollLocked() bool
	SetScrollLocked(locked bool)
}

// MediaSession keeps the media player consistent with one movie's trailer
// while the player overlay is mounted, and reports playback transitions.
//
// All methods must be called from a single goroutine (the UI loop).
type MediaSession struct {
	player   domain.MediaPlayer
	reporter domain.PlaybackReporter
	logger   *slog.Logger

	movie        domain.Movie
	binding      domain.MediaBinding
	lastPosition float64

	lock        ScrollLock
	savedLocked bool
	onClose     func()

	mounted bool
	closed  bool
}

// NewMediaSession creates an unmounted session
func NewMediaSession(player domain.MediaPlayer, reporter domain.PlaybackReporter, logger *slog.Logger) *MediaSession {
	if logger == nil {
		logger = slog.Default()
	}
	return &MediaSession{
		player:   player,
		reporter: reporter,
		logger:   logger,
	}
}

// Mount attaches the session to movie. Background scrolling is locked until
// Unmount. onClose runs once, after the final report, when the session closes.
// The returned binding is nil in placeholder mode (no video URL).
func (s *MediaSession) Mount(movie domain.Movie, lock ScrollLock, onClose func()) (domain.MediaBinding, error) {
	s.lock = lock
	s.onClose = onClose
	s.closed = false
	s.mounted = true

	if lock != nil {
		s.savedLocked = lock.ScrollLocked()
		lock.SetScrollLocked(true)
	}

	return s.ChangeSource(movie)
}

// Unmount restores the background scroll lock to its value before Mount,
// detaches from the player and unloads the source. Safe to call repeatedly.
func (s *MediaSession) Unmount() {
	if !s.mounted {
		return
	}
	s.mounted = false

	if s.lock != nil {
		s.lock.SetScrollLocked(s.savedLocked)
	}

	if s.binding != nil {
		s.binding.Release()
		s.binding = nil
		if err := s.player.Eject(); err != nil {
			s.logger.Debug("failed to eject media", "error", err)
		}
	}
	s.lastPosition = 0
}

// ChangeSource switches to movie. The old binding is released before the
// player is touched, so nothing from the previous source reaches the new one.
// The player ends up paused at 0 with the new source loaded.
func (s *MediaSession) ChangeSource(movie domain.Movie) (domain.MediaBinding, error) {
	hadMedia := s.binding != nil
	if hadMedia {
		s.binding.Release()
		s.binding = nil
	}

	s.movie = movie
	s.lastPosition = 0

	if !movie.HasVideo() {
		s.logger.Debug("no trailer for movie, showing placeholder", "movieID", movie.ID)
		if hadMedia {
			// Stop the previous trailer
			if err := s.player.Pause(); err != nil {
				s.logger.Debug("failed to pause before placeholder", "error", err)
			}
			if err := s.player.Eject(); err != nil {
				s.logger.Debug("failed to eject media", "error", err)
			}
		}
		return nil, nil
	}
	if s.player == nil {
		return nil, domain.ErrNoMedia
	}

	if err := s.player.Pause(); err != nil {
		s.logger.Debug("failed to pause before source change", "error", err)
	}
	if err := s.player.Seek(0); err != nil {
		s.logger.Debug("failed to rewind before source change", "error", err)
	}
	if err := s.player.Load(movie.VideoURL); err != nil {
		s.logger.Warn("failed to reload media", "error", err, "movieID", movie.ID, "url", movie.VideoURL)
	}

	binding, err := s.player.Bind()
	if err != nil {
		s.logger.Error("failed to bind media player", "error", err, "movieID", movie.ID)
		return nil, err
	}
	s.binding = binding

	s.logger.Info("media source changed", "movieID", movie.ID, "title", movie.Title)
	return binding, nil
}

// Movie returns the movie currently mounted
func (s *MediaSession) Movie() domain.Movie {
	return s.movie
}

// HasMedia reports whether a source is bound (false in placeholder mode)
func (s *MediaSession) HasMedia() bool {
	return s.binding != nil
}

// Binding returns the live binding, nil in placeholder mode
func (s *MediaSession) Binding() domain.MediaBinding {
	return s.binding
}

// LastPosition returns the tracked playback position in seconds
func (s *MediaSession) LastPosition() float64 {
	return s.lastPosition
}

// Closed reports whether Close has run
func (s *MediaSession) Closed() bool {
	return s.closed
}

// HandleEvent applies one media event. Events from any binding other than
// the current one are dropped.
func (s *MediaSession) HandleEvent(binding domain.MediaBinding, ev domain.MediaEvent) {
	if binding == nil || binding != s.binding || s.closed {
		return
	}

	switch ev.Kind {
	case domain.MediaTimeUpdate:
		s.lastPosition = ev.Position
	case domain.MediaPlay:
		s.report(domain.PlaybackStart, ev.Position)
	case domain.MediaPause:
		s.report(domain.PlaybackPause, ev.Position)
	case domain.MediaEnded:
		s.lastPosition = 0
		s.report(domain.PlaybackStop, 0)
	}
}

// TogglePause flips play/pause on the bound player
func (s *MediaSession) TogglePause() {
	if s.binding == nil || s.closed {
		return
	}
	if err := s.player.TogglePause(); err != nil {
		s.logger.Warn("failed to toggle pause", "error", err)
	}
}

// SeekRelative moves playback by delta seconds
func (s *MediaSession) SeekRelative(delta float64) {
	if s.binding == nil || s.closed {
		return
	}
	if err := s.player.SeekRelative(delta); err != nil {
		s.logger.Debug("failed to seek", "error", err, "delta", delta)
	}
}

// Close ends playback: pause, report stop at the current position, rewind,
// then run onClose. Only the first call has any effect.
func (s *MediaSession) Close() {
	if s.closed {
		return
	}
	s.closed = true

	if s.binding != nil {
		if err := s.player.Pause(); err != nil {
			s.logger.Debug("failed to pause on close", "error", err)
		}

		pos, err := s.player.Position()
		if err != nil || pos <= 0 {
			pos = s.lastPosition
		}
		s.report(domain.PlaybackStop, pos)

		if err := s.player.Seek(0); err != nil {
			s.logger.Debug("failed to rewind on close", "error", err)
		}
		s.lastPosition = 0
	}

	if s.onClose != nil {
		s.onClose()
	}
}

func (s *MediaSession) report(kind domain.PlaybackKind, position float64) {
	if s.reporter == nil {
		return
	}
	if position < 0 || math.IsNaN(position) {
		position = 0
	}
	s.reporter.Notify(domain.PlaybackEvent{
		MovieID:  s.movie.ID,
		Position: int(math.Floor(position)),
		Kind:     kind,
	})
}
