package entity

import "time"

// Match records the fact that a post satisfied a feed user's interest
// predicate at observation time. Matches are append-only: they are written
// exactly once per (post, user) pair and outlive the post they reference.
type Match struct {
	// URI is the AT-URI of the matched post.
	URI string

	// CID is the content identifier of the matched post version.
	CID string

	// FeedUser is the URI of the user whose keywords matched.
	FeedUser string

	// IndexedAt orders the user's personalized feed, newest first.
	IndexedAt time.Time
}
