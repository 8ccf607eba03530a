// Package feed exposes the AT Protocol feed generator endpoints:
// getFeedSkeleton, describeFeedGenerator, and the did:web document.
package feed

import (
	"fmt"
	"strings"
)

// GeneratorCollection is the record collection feed generator URIs point at.
const GeneratorCollection = "app.bsky.feed.generator"

// atURI is a parsed at:// URI. Authority carries the DID; for feed generator
// URIs the DID identifies the publisher.
type atURI struct {
	Authority  string
	Collection string
	Rkey       string
}

// parseATURI parses "at://<authority>/<collection>/<rkey>". Trailing parts
// beyond the rkey are rejected.
func parseATURI(raw string) (atURI, error) {
	rest, ok := strings.CutPrefix(raw, "at://")
	if !ok {
		return atURI{}, fmt.Errorf("invalid at-uri %q: missing at:// scheme", raw)
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return atURI{}, fmt.Errorf("invalid at-uri %q: want at://authority/collection/rkey", raw)
	}
	return atURI{
		Authority:  parts[0],
		Collection: parts[1],
		Rkey:       parts[2],
	}, nil
}
