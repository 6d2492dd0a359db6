package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/exhibitops/floorwatch/internal/domain/port/driven"
)

// refreshRequest represents a manual refresh trigger.
type refreshRequest struct {
	done chan error
}

// PollService orchestrates periodic fetching of visitor counts from the
// upstream counting service and their persistence. Both the periodic poll
// and manual refreshes are best-effort: a failed fetch is logged and the
// last-known-good counts stay in place; existing data is never cleared.
type PollService struct {
	countSource driven.CountSource
	countStore  driven.CountStore
	interval    time.Duration
	window      time.Duration
	refreshCh   chan refreshRequest
}

// NewPollService creates a PollService with all required dependencies.
func NewPollService(
	countSource driven.CountSource,
	countStore driven.CountStore,
	interval time.Duration,
	window time.Duration,
) *PollService {
	return &PollService{
		countSource: countSource,
		countStore:  countStore,
		interval:    interval,
		window:      window,
		refreshCh:   make(chan refreshRequest),
	}
}

// Start begins the polling loop. It runs an immediate poll, then polls on
// the configured interval, and listens for manual refresh requests in
// between. Start blocks until the context is canceled.
func (s *PollService) Start(ctx context.Context) {
	if err := s.poll(ctx); err != nil {
		slog.Error("initial poll failed", "error", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("poll service stopped")
			return
		case <-ticker.C:
			if err := s.poll(ctx); err != nil {
				slog.Error("poll cycle failed", "error", err)
			}
		case req := <-s.refreshCh:
			req.done <- s.poll(ctx)
		}
	}
}

// Refresh triggers an immediate poll, bypassing the interval. It blocks
// until the poll completes or the context is canceled, and returns the
// poll's error so callers can surface it.
func (s *PollService) Refresh(ctx context.Context) error {
	done := make(chan error, 1)

	select {
	case s.refreshCh <- refreshRequest{done: done}:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// poll fetches one round of visitor counts and records the samples. The
// returned error leaves stored counts untouched; the next render keeps
// showing the last-known-good values.
func (s *PollService) poll(ctx context.Context) error {
	start := time.Now()

	samples, err := s.countSource.FetchCounts(ctx, s.window)
	if err != nil {
		return err
	}

	if err := s.countStore.RecordSamples(ctx, samples); err != nil {
		return err
	}

	slog.Info("poll cycle complete",
		"samples", len(samples),
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return nil
}
