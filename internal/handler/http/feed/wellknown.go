package feed

import (
	"fmt"
	"net/http"

	"interest-feed/internal/handler/http/respond"
)

// WellKnownDIDHandler serves GET /.well-known/did.json, making the service
// resolvable as a did:web identity.
type WellKnownDIDHandler struct {
	ServiceDID string
	Hostname   string
}

type didService struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	ServiceEndpoint string `json:"serviceEndpoint"`
}

type didDocument struct {
	Context []string     `json:"@context"`
	ID      string       `json:"id"`
	Service []didService `json:"service"`
}

func (h WellKnownDIDHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, didDocument{
		Context: []string{"https://www.w3.org/ns/did/v1"},
		ID:      h.ServiceDID,
		Service: []didService{
			{
				ID:              "#bsky_fg",
				Type:            "BskyFeedGenerator",
				ServiceEndpoint: fmt.Sprintf("https://%s", h.Hostname),
			},
		},
	})
}
