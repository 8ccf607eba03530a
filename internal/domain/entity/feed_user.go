package entity

import "strings"

// FeedUser represents an identity that has requested the personalized feed.
// Description is written by the request path on every feed request;
// DescriptionIndexed and Keywords are written only by the index refresher.
// The two writers touch disjoint columns, so row-level upserts are enough to
// keep them from conflicting.
type FeedUser struct {
	// URI is the stable identifier of the user (a DID).
	URI string

	// Description is the raw profile text as last observed.
	Description string

	// DescriptionIndexed is the profile text that produced Keywords, or nil
	// if the user has never been enriched.
	DescriptionIndexed *string

	// Keywords holds the derived interest phrases, newline-joined, or nil if
	// enrichment has not completed yet.
	Keywords *string
}

// NeedsIndexing reports whether the stored description differs from the one
// the keywords were derived from. This is the refresher's selection predicate.
func (u *FeedUser) NeedsIndexing() bool {
	return u.DescriptionIndexed == nil || *u.DescriptionIndexed != u.Description
}

// KeywordPhrases splits the newline-joined keyword column into individual
// phrases. Returns nil when the user has not been enriched.
func (u *FeedUser) KeywordPhrases() []string {
	if u.Keywords == nil || *u.Keywords == "" {
		return nil
	}
	return strings.Split(*u.Keywords, "\n")
}
