package feed

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"interest-feed/internal/handler/http/respond"
	"interest-feed/internal/observability/logging"
	feedUC "interest-feed/internal/usecase/feed"
)

// SkeletonHandler serves GET /xrpc/app.bsky.feed.getFeedSkeleton.
//
// The requesting subscriber is identified by the DID embedded in the feed
// URI. Per-requester auth is intentionally absent: each deployment publishes
// the feed under its operator's DID and the feed is personalized to that
// identity.
type SkeletonHandler struct {
	Svc          *feedUC.Service
	PublisherDID string
	FeedRkey     string
	Logger       *slog.Logger
}

func (h SkeletonHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)
	q := r.URL.Query()

	uri, err := parseATURI(q.Get("feed"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if uri.Authority != h.PublisherDID || uri.Collection != GeneratorCollection || uri.Rkey != h.FeedRkey {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid feed: unsupported algorithm"))
		return
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			respond.SafeError(w, http.StatusBadRequest, errors.New("limit must be a number"))
			return
		}
	}

	matches, cursor, err := h.Svc.GetPage(ctx, uri.Authority, limit, q.Get("cursor"))
	if err != nil {
		logger.Error("feed page query failed",
			slog.String("feed_user", uri.Authority),
			slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	items := make([]SkeletonItem, 0, len(matches))
	for _, m := range matches {
		items = append(items, SkeletonItem{Post: m.URI})
	}
	respond.JSON(w, http.StatusOK, SkeletonResponse{Cursor: cursor, Feed: items})
}
