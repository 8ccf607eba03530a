// Package feed serves personalized feed pages from stored match records and
// keeps the requesting user's profile description fresh as a side effect of
// every request.
package feed

import (
	"context"
	"fmt"
	"log/slog"

	"interest-feed/internal/domain/entity"
	"interest-feed/internal/repository"
)

const (
	// DefaultLimit applies when the request carries no limit.
	DefaultLimit = 50

	// MaxLimit caps one feed page.
	MaxLimit = 100
)

// ProfileFetcher retrieves a user's current profile description from the
// network.
type ProfileFetcher interface {
	FetchDescription(ctx context.Context, actor string) (string, error)
}

// Service answers feed page requests.
type Service struct {
	matches  repository.MatchRepository
	users    repository.FeedUserRepository
	profiles ProfileFetcher
	logger   *slog.Logger
}

// NewService creates a feed service.
func NewService(matches repository.MatchRepository, users repository.FeedUserRepository, profiles ProfileFetcher, logger *slog.Logger) *Service {
	return &Service{
		matches:  matches,
		users:    users,
		profiles: profiles,
		logger:   logger,
	}
}

// GetPage returns one page of the subscriber's personalized feed as match
// records, newest first, plus the cursor for the next page. An empty next
// cursor means the feed is exhausted.
//
// As a side effect the subscriber's profile description is fetched and
// upserted so a later refresh cycle can derive keywords for them. That side
// effect is best effort: a profile fetch or upsert failure is logged and the
// page is still served from whatever keywords the user had before.
func (s *Service) GetPage(ctx context.Context, subscriber string, limit int, cursor string) ([]*entity.Match, string, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	s.recordSubscriber(ctx, subscriber)

	matches, next, err := s.matches.ListForUser(ctx, subscriber, limit, cursor)
	if err != nil {
		return nil, "", fmt.Errorf("list matches: %w", err)
	}
	return matches, next, nil
}

func (s *Service) recordSubscriber(ctx context.Context, subscriber string) {
	description, err := s.profiles.FetchDescription(ctx, subscriber)
	if err != nil {
		s.logger.Warn("profile fetch failed",
			slog.String("feed_user", subscriber),
			slog.Any("error", err))
		return
	}
	if err := s.users.UpsertDescription(ctx, subscriber, description); err != nil {
		s.logger.Warn("description upsert failed",
			slog.String("feed_user", subscriber),
			slog.Any("error", err))
	}
}
