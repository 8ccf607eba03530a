package firehose

import (
	"testing"
	"time"
)

func commitEvent(op, collection string, record *PostRecord) *Event {
	return &Event{
		DID:    "did:plc:abc",
		TimeUS: 1717243200000000,
		Kind:   KindCommit,
		Commit: &Commit{
			Operation:  op,
			Collection: collection,
			RKey:       "3kabc",
			CID:        "cid1",
			Record:     record,
		},
	}
}

func TestClassify_CreateNormalizesText(t *testing.T) {
	now := time.Now()
	event := commitEvent(OpCreate, PostCollection, &PostRecord{
		Type: PostCollection,
		Text: "Hello ATProto World",
	})

	ops := Classify(event, now)

	if len(ops.Creates) != 1 || len(ops.Deletes) != 0 {
		t.Fatalf("got %d creates %d deletes, want 1/0", len(ops.Creates), len(ops.Deletes))
	}
	post := ops.Creates[0]
	if post.URI != "at://did:plc:abc/app.bsky.feed.post/3kabc" {
		t.Errorf("uri=%q", post.URI)
	}
	if post.Text != "hello atproto world" {
		t.Errorf("text=%q, want lowercased", post.Text)
	}
	if !post.IndexedAt.Equal(now) {
		t.Errorf("indexedAt=%v, want %v", post.IndexedAt, now)
	}
	if post.ReplyParent != nil || post.ReplyRoot != nil {
		t.Error("non-reply post should have nil reply refs")
	}
}

func TestClassify_CreateExtractsReplyRefs(t *testing.T) {
	event := commitEvent(OpCreate, PostCollection, &PostRecord{
		Text: "a reply",
		Reply: &ReplyRef{
			Root:   StrongRef{URI: "at://did:plc:root/app.bsky.feed.post/1"},
			Parent: StrongRef{URI: "at://did:plc:parent/app.bsky.feed.post/2"},
		},
	})

	ops := Classify(event, time.Now())

	post := ops.Creates[0]
	if post.ReplyParent == nil || *post.ReplyParent != "at://did:plc:parent/app.bsky.feed.post/2" {
		t.Errorf("replyParent=%v", post.ReplyParent)
	}
	if post.ReplyRoot == nil || *post.ReplyRoot != "at://did:plc:root/app.bsky.feed.post/1" {
		t.Errorf("replyRoot=%v", post.ReplyRoot)
	}
}

func TestClassify_Delete(t *testing.T) {
	event := commitEvent(OpDelete, PostCollection, nil)

	ops := Classify(event, time.Now())

	if len(ops.Deletes) != 1 || ops.Deletes[0] != "at://did:plc:abc/app.bsky.feed.post/3kabc" {
		t.Fatalf("deletes=%v", ops.Deletes)
	}
	if len(ops.Creates) != 0 {
		t.Errorf("creates=%v, want none", ops.Creates)
	}
}

func TestClassify_IgnoredEvents(t *testing.T) {
	tests := []struct {
		name  string
		event *Event
	}{
		{"nil event", nil},
		{"identity event", &Event{Kind: "identity"}},
		{"commit without payload", &Event{Kind: KindCommit}},
		{"foreign collection", commitEvent(OpCreate, "app.bsky.feed.like", nil)},
		{"unknown operation", commitEvent("update", PostCollection, &PostRecord{Text: "x"})},
		{"create without record", commitEvent(OpCreate, PostCollection, nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ops := Classify(tt.event, time.Now()); !ops.Empty() {
				t.Errorf("expected empty ops, got %+v", ops)
			}
		})
	}
}

func TestParseEvent_Commit(t *testing.T) {
	data := []byte(`{
		"did": "did:plc:abc",
		"time_us": 1717243200000000,
		"kind": "commit",
		"commit": {
			"rev": "rev1",
			"operation": "create",
			"collection": "app.bsky.feed.post",
			"rkey": "3kabc",
			"cid": "cid1",
			"record": {
				"$type": "app.bsky.feed.post",
				"text": "Hello",
				"createdAt": "2024-06-01T12:00:00Z",
				"langs": ["en"]
			}
		}
	}`)

	event, err := ParseEvent(data)
	if err != nil {
		t.Fatalf("ParseEvent err=%v", err)
	}
	if event.TimeUS != 1717243200000000 {
		t.Errorf("time_us=%d", event.TimeUS)
	}
	if event.Commit == nil || event.Commit.Record == nil {
		t.Fatal("expected decoded commit with record")
	}
	if event.Commit.Record.Text != "Hello" {
		t.Errorf("text=%q", event.Commit.Record.Text)
	}
	if got := event.URI(); got != "at://did:plc:abc/app.bsky.feed.post/3kabc" {
		t.Errorf("uri=%q", got)
	}
}

func TestParseEvent_ForeignCollectionSkipsRecord(t *testing.T) {
	data := []byte(`{
		"did": "did:plc:abc",
		"kind": "commit",
		"commit": {
			"operation": "create",
			"collection": "app.bsky.graph.follow",
			"rkey": "3kabc",
			"record": {"subject": "did:plc:xyz", "createdAt": 12345}
		}
	}`)

	event, err := ParseEvent(data)
	if err != nil {
		t.Fatalf("ParseEvent err=%v", err)
	}
	if event.Commit.Record != nil {
		t.Error("foreign collection record should not be decoded")
	}
}

func TestParseEvent_NonCommit(t *testing.T) {
	event, err := ParseEvent([]byte(`{"did":"did:plc:abc","kind":"identity","time_us":5}`))
	if err != nil {
		t.Fatalf("ParseEvent err=%v", err)
	}
	if event.Commit != nil {
		t.Error("non-commit event should have nil commit")
	}
	if event.URI() != "" {
		t.Errorf("uri=%q, want empty", event.URI())
	}
}

func TestParseEvent_Malformed(t *testing.T) {
	if _, err := ParseEvent([]byte(`not json`)); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
