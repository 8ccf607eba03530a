package feed

import (
	"log/slog"
	"net/http"

	feedUC "interest-feed/internal/usecase/feed"
)

// Config carries the published feed's identity.
type Config struct {
	// ServiceDID is the did:web identity of this service.
	ServiceDID string

	// PublisherDID is the DID the feed record is published under.
	PublisherDID string

	// FeedRkey is the record key of the published feed generator.
	FeedRkey string

	// Hostname is the public hostname serving this generator.
	Hostname string
}

// Register registers the feed generator endpoints with the given mux.
func Register(mux *http.ServeMux, svc *feedUC.Service, cfg Config, logger *slog.Logger) {
	mux.Handle("GET /xrpc/app.bsky.feed.getFeedSkeleton", SkeletonHandler{
		Svc:          svc,
		PublisherDID: cfg.PublisherDID,
		FeedRkey:     cfg.FeedRkey,
		Logger:       logger,
	})
	mux.Handle("GET /xrpc/app.bsky.feed.describeFeedGenerator", DescribeHandler{
		ServiceDID:   cfg.ServiceDID,
		PublisherDID: cfg.PublisherDID,
		FeedRkey:     cfg.FeedRkey,
	})
	mux.Handle("GET /.well-known/did.json", WellKnownDIDHandler{
		ServiceDID: cfg.ServiceDID,
		Hostname:   cfg.Hostname,
	})
}
