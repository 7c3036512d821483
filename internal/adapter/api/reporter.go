package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/streamflix/streamflix/internal/domain"
)

const reportTimeout = 10 * time.Second

// PlaybackReporter posts playback lifecycle events to the backend.
// Reports are best effort: failures are logged and never retried.
type PlaybackReporter struct {
	client  *Client
	timeout time.Duration
	logger  *slog.Logger

	wg sync.WaitGroup
}

// NewPlaybackReporter creates a reporter that sends through client
func NewPlaybackReporter(client *Client, logger *slog.Logger) *PlaybackReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaybackReporter{
		client:  client,
		timeout: reportTimeout,
		logger:  logger,
	}
}

var _ domain.PlaybackReporter = (*PlaybackReporter)(nil)

// Report sends one event and waits for the response
func (r *PlaybackReporter) Report(ctx context.Context, ev domain.PlaybackEvent) error {
	_, err := r.client.doRequest(ctx, http.MethodPost, "/playback/"+string(ev.Kind), playbackRequest{
		MovieID:  ev.MovieID,
		Position: ev.Position,
	})
	return err
}

// Notify sends ev in the background. It never blocks and never fails the caller.
func (r *PlaybackReporter) Notify(ev domain.PlaybackEvent) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := r.Report(ctx, ev); err != nil {
			r.logger.Warn("failed to report playback", "error", err,
				"kind", ev.Kind, "movieID", ev.MovieID, "position", ev.Position)
			return
		}
		r.logger.Debug("playback reported", "event", ev.String())
	}()
}

// Flush waits for in-flight reports or until ctx is done
func (r *PlaybackReporter) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
