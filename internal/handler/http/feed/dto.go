package feed

// SkeletonItem references one post by AT-URI, per app.bsky.feed.getFeedSkeleton.
type SkeletonItem struct {
	Post string `json:"post"`
}

// SkeletonResponse is a single feed page. Cursor is omitted on the last page.
type SkeletonResponse struct {
	Cursor string         `json:"cursor,omitempty"`
	Feed   []SkeletonItem `json:"feed"`
}

// GeneratorView describes one published feed in describeFeedGenerator.
type GeneratorView struct {
	URI string `json:"uri"`
}

// DescribeResponse is the describeFeedGenerator body.
type DescribeResponse struct {
	DID   string          `json:"did"`
	Feeds []GeneratorView `json:"feeds"`
}
