package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streamflix/streamflix/internal/domain"
)

// player is the media resource plus process lifecycle (consumer-defined interface)
type player interface {
	domain.MediaPlayer
	Start(ctx context.Context) error
	Shutdown() error
}

// flusher is implemented by reporters that send in the background
type flusher interface {
	Flush(ctx context.Context) error
}

// PlaybackService owns the media player and hands out sessions over it
type PlaybackService struct {
	player   player
	reporter domain.PlaybackReporter
	logger   *slog.Logger

	started bool
}

// NewPlaybackService creates a new playback service
func NewPlaybackService(
	player player,
	reporter domain.PlaybackReporter,
	logger *slog.Logger,
) *PlaybackService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaybackService{
		player:   player,
		reporter: reporter,
		logger:   logger,
	}
}

// NewSession creates an unmounted media session on the shared player.
// The player process itself starts on the first command a session sends.
func (s *PlaybackService) NewSession() *MediaSession {
	s.started = true
	return NewMediaSession(s.player, s.reporter, s.logger)
}

// Prepare brings the player up so the first session's commands do not wait
// on process startup. Safe to call from any goroutine.
func (s *PlaybackService) Prepare(ctx context.Context) error {
	if s.player == nil {
		return domain.ErrNoMedia
	}
	if err := s.player.Start(ctx); err != nil {
		s.logger.Error("failed to start media player", "error", err)
		return fmt.Errorf("failed to start media player: %w", err)
	}
	return nil
}

// Shutdown waits for pending reports, then stops the player
func (s *PlaybackService) Shutdown(ctx context.Context) error {
	if f, ok := s.reporter.(flusher); ok {
		if err := f.Flush(ctx); err != nil {
			s.logger.Warn("playback reports still pending at exit", "error", err)
		}
	}

	if !s.started || s.player == nil {
		return nil
	}
	if err := s.player.Shutdown(); err != nil {
		s.logger.Error("failed to stop player", "error", err)
		return err
	}
	return nil
}
