package feed

import (
	"fmt"
	"net/http"

	"interest-feed/internal/handler/http/respond"
)

// DescribeHandler serves GET /xrpc/app.bsky.feed.describeFeedGenerator.
type DescribeHandler struct {
	ServiceDID   string
	PublisherDID string
	FeedRkey     string
}

func (h DescribeHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, DescribeResponse{
		DID: h.ServiceDID,
		Feeds: []GeneratorView{
			{URI: fmt.Sprintf("at://%s/%s/%s", h.PublisherDID, GeneratorCollection, h.FeedRkey)},
		},
	})
}
