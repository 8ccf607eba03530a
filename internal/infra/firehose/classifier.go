package firehose

import (
	"strings"
	"time"

	"interest-feed/internal/domain/entity"
)

// PostOps is the classified output of one event: the posts to create and the
// URIs to delete. It carries no persistence concerns.
type PostOps struct {
	Creates []*entity.Post
	Deletes []string
}

// Empty reports whether the event produced no operations of interest.
func (ops PostOps) Empty() bool {
	return len(ops.Creates) == 0 && len(ops.Deletes) == 0
}

// Classify turns a decoded event into typed post operations. Non-commit
// events, foreign collections, and unknown operations all classify to an
// empty PostOps; classification never fails.
//
// Create operations are normalized here: the body text is lowercased once so
// every downstream predicate evaluation works on the same form, reply
// references are extracted when present, and the post is stamped with now.
func Classify(event *Event, now time.Time) PostOps {
	if event == nil || event.Kind != KindCommit || event.Commit == nil {
		return PostOps{}
	}
	commit := event.Commit
	if commit.Collection != PostCollection {
		return PostOps{}
	}

	switch commit.Operation {
	case OpCreate:
		if commit.Record == nil {
			return PostOps{}
		}
		post := &entity.Post{
			URI:       event.URI(),
			CID:       commit.CID,
			Text:      strings.ToLower(commit.Record.Text),
			IndexedAt: now,
		}
		if reply := commit.Record.Reply; reply != nil {
			parent := reply.Parent.URI
			root := reply.Root.URI
			post.ReplyParent = &parent
			post.ReplyRoot = &root
		}
		return PostOps{Creates: []*entity.Post{post}}

	case OpDelete:
		return PostOps{Deletes: []string{event.URI()}}

	default:
		return PostOps{}
	}
}
