// Package enrich runs the subscriber index refresher: it periodically finds
// feed users whose stored description no longer matches the description their
// keywords were derived from, asks the extractor for a fresh keyword set, and
// persists the result.
package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"interest-feed/internal/infra/enricher"
	"interest-feed/internal/repository"
)

// Service drives the enrichment cycle.
type Service struct {
	users     repository.FeedUserRepository
	extractor enricher.Extractor
	logger    *slog.Logger
	metrics   MetricsRecorder

	// CycleTimeout bounds one full refresh cycle. Zero means no timeout.
	CycleTimeout time.Duration
}

// NewService creates a refresher service. If metrics is nil a no-op recorder
// is used.
func NewService(users repository.FeedUserRepository, extractor enricher.Extractor, logger *slog.Logger, metrics MetricsRecorder) *Service {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &Service{
		users:     users,
		extractor: extractor,
		logger:    logger,
		metrics:   metrics,
	}
}

// RunCycle performs one refresh pass. Users whose extraction fails keep their
// previous keywords and stay stale, so the next cycle picks them up again.
// The cycle itself only fails when the stale listing cannot be loaded.
func (s *Service) RunCycle(ctx context.Context) error {
	if s.CycleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.CycleTimeout)
		defer cancel()
	}

	start := time.Now()
	stale, err := s.users.ListStale(ctx)
	if err != nil {
		s.metrics.RecordCycle("error", time.Since(start))
		return fmt.Errorf("list stale users: %w", err)
	}
	if len(stale) == 0 {
		s.metrics.RecordCycle("success", time.Since(start))
		return nil
	}

	s.logger.Info("refresh cycle started", slog.Int("stale_users", len(stale)))

	var enriched, failed int
	for _, user := range stale {
		if err := s.refreshUser(ctx, user.URI, user.Description); err != nil {
			failed++
			s.logger.Warn("user enrichment failed",
				slog.String("feed_user", user.URI),
				slog.Any("error", err))
			if ctx.Err() != nil {
				break
			}
			continue
		}
		enriched++
	}

	s.metrics.RecordUsers(enriched, failed)
	s.metrics.RecordCycle("success", time.Since(start))
	s.logger.Info("refresh cycle finished",
		slog.Int("enriched", enriched),
		slog.Int("failed", failed),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (s *Service) refreshUser(ctx context.Context, uri, description string) error {
	keywords, err := s.extractor.ExtractKeywords(ctx, description)
	if err != nil {
		return fmt.Errorf("extract keywords: %w", err)
	}
	// Persist the description alongside the keywords so the staleness
	// predicate sees this exact text as indexed, even if the request path
	// overwrote the row meanwhile.
	if err := s.users.SetIndexed(ctx, uri, description, strings.Join(keywords, "\n")); err != nil {
		return fmt.Errorf("set indexed: %w", err)
	}
	return nil
}

// Start schedules RunCycle at the given interval and returns the running
// scheduler. Overlapping runs are skipped rather than queued, so a slow cycle
// never stacks up behind itself.
func (s *Service) Start(ctx context.Context, interval time.Duration) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		if err := s.RunCycle(ctx); err != nil {
			s.logger.Error("refresh cycle failed", slog.Any("error", err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule refresh cycle: %w", err)
	}
	c.Start()
	return c, nil
}
