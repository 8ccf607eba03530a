// Package ingest applies firehose post batches to storage and evaluates every
// created post against each feed user's keyword set, recording the matches
// that back the personalized feeds.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"interest-feed/internal/domain/entity"
	"interest-feed/internal/repository"
	"interest-feed/internal/resilience/retry"
)

// Service consumes classified firehose batches. It implements the firehose
// subscriber's Processor interface.
type Service struct {
	posts   repository.PostRepository
	users   repository.FeedUserRepository
	matches repository.MatchRepository
	logger  *slog.Logger
	metrics MetricsRecorder
}

// NewService creates an ingest service. If metrics is nil a no-op recorder is
// used.
func NewService(
	posts repository.PostRepository,
	users repository.FeedUserRepository,
	matches repository.MatchRepository,
	logger *slog.Logger,
	metrics MetricsRecorder,
) *Service {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &Service{
		posts:   posts,
		users:   users,
		matches: matches,
		logger:  logger,
		metrics: metrics,
	}
}

// ProcessBatch applies one classified firehose batch. Deletes are applied
// before creates so a delete-then-create of the same URI inside a single batch
// leaves the recreated post in place.
//
// An error means the batch was not fully applied; the caller must not advance
// its cursor, so the batch will be replayed. Replays are safe because post and
// match inserts are idempotent.
func (s *Service) ProcessBatch(ctx context.Context, creates []*entity.Post, deletes []string) error {
	if len(deletes) > 0 {
		err := retry.WithBackoff(ctx, retry.DBConfig(), func() error {
			return s.posts.DeleteByURIs(ctx, deletes)
		})
		if err != nil {
			return fmt.Errorf("delete posts: %w", err)
		}
		s.metrics.RecordPostsDeleted(len(deletes))
	}

	if len(creates) == 0 {
		return nil
	}

	err := retry.WithBackoff(ctx, retry.DBConfig(), func() error {
		return s.posts.CreateBatch(ctx, creates)
	})
	if err != nil {
		return fmt.Errorf("create posts: %w", err)
	}
	s.metrics.RecordPostsCreated(len(creates))

	users, err := s.users.ListIndexed(ctx)
	if err != nil {
		return fmt.Errorf("list indexed users: %w", err)
	}
	if len(users) == 0 {
		return nil
	}

	for _, post := range creates {
		for _, user := range users {
			if user.Keywords == nil || !MatchesKeywords(*user.Keywords, post.Text) {
				continue
			}
			match := &entity.Match{
				URI:       post.URI,
				CID:       post.CID,
				FeedUser:  user.URI,
				IndexedAt: post.IndexedAt,
			}
			err := retry.WithBackoff(ctx, retry.DBConfig(), func() error {
				return s.matches.Create(ctx, match)
			})
			if err != nil {
				return fmt.Errorf("create match: %w", err)
			}
			s.metrics.RecordMatch()
			s.logger.Debug("post matched",
				slog.String("uri", post.URI),
				slog.String("feed_user", user.URI))
		}
	}
	return nil
}
