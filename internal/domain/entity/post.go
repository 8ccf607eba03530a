// Package entity defines the core domain entities for the personalized feed
// pipeline: posts observed on the firehose, feed users with derived interest
// keywords, and the match records connecting the two.
package entity

import "time"

// Post represents a single piece of content observed on the firehose and
// tracked for matching. The text is stored already lowercased so the matching
// predicate never re-normalizes it. Posts are never mutated in place: a post
// is created when a create op is observed and removed when a delete op
// referencing the same URI is observed.
type Post struct {
	// URI is the AT-URI of the post (e.g. at://did:plc:abc/app.bsky.feed.post/3k...).
	URI string

	// CID is the content-hash identifier of the record version.
	CID string

	// Text is the lowercased post body used for keyword matching.
	Text string

	// ReplyParent is the AT-URI of the direct parent when the post is a reply.
	ReplyParent *string

	// ReplyRoot is the AT-URI of the thread root when the post is a reply.
	ReplyRoot *string

	// IndexedAt is when this process observed the post.
	IndexedAt time.Time
}
