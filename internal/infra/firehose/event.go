// Package firehose consumes the Jetstream event stream over a websocket,
// classifies post events into create/delete operations, and feeds them to the
// matching pipeline with a durable resume cursor.
package firehose

import (
	"encoding/json"
	"fmt"
)

// Event kinds and commit operations as they appear on the wire. Anything not
// listed here is ignored rather than treated as a decode failure.
const (
	KindCommit = "commit"

	OpCreate = "create"
	OpDelete = "delete"

	PostCollection = "app.bsky.feed.post"
)

// Event is one decoded Jetstream event. Commit is nil for non-commit kinds.
type Event struct {
	DID    string  `json:"did"`
	TimeUS int64   `json:"time_us"`
	Kind   string  `json:"kind"`
	Commit *Commit `json:"commit,omitempty"`
}

// Commit is the repo-commit payload of a commit event.
type Commit struct {
	Rev        string      `json:"rev"`
	Operation  string      `json:"operation"`
	Collection string      `json:"collection"`
	RKey       string      `json:"rkey"`
	CID        string      `json:"cid"`
	Record     *PostRecord `json:"record,omitempty"`
}

// PostRecord is the parsed content of an app.bsky.feed.post record.
type PostRecord struct {
	Type      string    `json:"$type"`
	Text      string    `json:"text"`
	CreatedAt string    `json:"createdAt"`
	Langs     []string  `json:"langs,omitempty"`
	Reply     *ReplyRef `json:"reply,omitempty"`
}

// ReplyRef contains references to the parent and root of a reply chain.
type ReplyRef struct {
	Root   StrongRef `json:"root"`
	Parent StrongRef `json:"parent"`
}

// StrongRef is a reference to a specific version of a record.
type StrongRef struct {
	URI string `json:"uri"`
	CID string `json:"cid"`
}

// ParseEvent decodes a raw Jetstream message. The commit payload is decoded
// only for commit events; the record only for the post collection, so foreign
// record shapes never cause decode failures.
func ParseEvent(data []byte) (*Event, error) {
	var raw struct {
		DID    string          `json:"did"`
		TimeUS int64           `json:"time_us"`
		Kind   string          `json:"kind"`
		Commit json.RawMessage `json:"commit,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}

	event := &Event{
		DID:    raw.DID,
		TimeUS: raw.TimeUS,
		Kind:   raw.Kind,
	}

	if raw.Kind != KindCommit || len(raw.Commit) == 0 {
		return event, nil
	}

	var rc struct {
		Rev        string          `json:"rev"`
		Operation  string          `json:"operation"`
		Collection string          `json:"collection"`
		RKey       string          `json:"rkey"`
		CID        string          `json:"cid"`
		Record     json.RawMessage `json:"record,omitempty"`
	}
	if err := json.Unmarshal(raw.Commit, &rc); err != nil {
		return nil, fmt.Errorf("unmarshal commit: %w", err)
	}

	commit := &Commit{
		Rev:        rc.Rev,
		Operation:  rc.Operation,
		Collection: rc.Collection,
		RKey:       rc.RKey,
		CID:        rc.CID,
	}

	if len(rc.Record) > 0 && rc.Collection == PostCollection {
		var record PostRecord
		if err := json.Unmarshal(rc.Record, &record); err != nil {
			return nil, fmt.Errorf("unmarshal post record: %w", err)
		}
		commit.Record = &record
	}

	event.Commit = commit
	return event, nil
}

// URI builds the AT-URI of the committed record.
func (e *Event) URI() string {
	if e.Commit == nil {
		return ""
	}
	return fmt.Sprintf("at://%s/%s/%s", e.DID, e.Commit.Collection, e.Commit.RKey)
}
