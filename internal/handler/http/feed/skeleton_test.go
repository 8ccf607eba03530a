package feed_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"interest-feed/internal/domain/entity"
	feedHandler "interest-feed/internal/handler/http/feed"
	feedUC "interest-feed/internal/usecase/feed"
)

const (
	testPublisherDID = "did:web:feed.example.com"
	testFeedRkey     = "interests"
	testFeedURI      = "at://" + testPublisherDID + "/app.bsky.feed.generator/" + testFeedRkey
)

type stubMatchRepo struct {
	matches []*entity.Match
	next    string
}

func (s *stubMatchRepo) Create(_ context.Context, _ *entity.Match) error { return nil }
func (s *stubMatchRepo) ListForUser(_ context.Context, _ string, _ int, _ string) ([]*entity.Match, string, error) {
	return s.matches, s.next, nil
}

type stubUserRepo struct {
	upserts map[string]string
}

func (s *stubUserRepo) UpsertDescription(_ context.Context, uri, description string) error {
	if s.upserts == nil {
		s.upserts = map[string]string{}
	}
	s.upserts[uri] = description
	return nil
}
func (s *stubUserRepo) ListStale(_ context.Context) ([]*entity.FeedUser, error)   { return nil, nil }
func (s *stubUserRepo) ListIndexed(_ context.Context) ([]*entity.FeedUser, error) { return nil, nil }
func (s *stubUserRepo) SetIndexed(_ context.Context, _, _, _ string) error        { return nil }

type stubProfiles struct{}

func (stubProfiles) FetchDescription(_ context.Context, _ string) (string, error) {
	return "i like protocols", nil
}

func newHandler(matches *stubMatchRepo, users *stubUserRepo) feedHandler.SkeletonHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := feedUC.NewService(matches, users, stubProfiles{}, logger)
	return feedHandler.SkeletonHandler{
		Svc:          svc,
		PublisherDID: testPublisherDID,
		FeedRkey:     testFeedRkey,
		Logger:       logger,
	}
}

func skeletonRequest(query url.Values) *http.Request {
	return httptest.NewRequest(http.MethodGet, "/xrpc/app.bsky.feed.getFeedSkeleton?"+query.Encode(), nil)
}

func TestSkeletonHandler_ServesPage(t *testing.T) {
	matches := &stubMatchRepo{
		matches: []*entity.Match{
			{URI: "at://did:plc:x/app.bsky.feed.post/2", CID: "c2", IndexedAt: time.Now()},
			{URI: "at://did:plc:x/app.bsky.feed.post/1", CID: "c1", IndexedAt: time.Now().Add(-time.Minute)},
		},
		next: "1756550400000000::c1",
	}
	users := &stubUserRepo{}
	h := newHandler(matches, users)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, skeletonRequest(url.Values{"feed": {testFeedURI}}))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var body feedHandler.SkeletonResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(body.Feed) != 2 {
		t.Errorf("feed items = %d, want 2", len(body.Feed))
	}
	if body.Feed[0].Post != "at://did:plc:x/app.bsky.feed.post/2" {
		t.Errorf("first item = %q", body.Feed[0].Post)
	}
	if body.Cursor != "1756550400000000::c1" {
		t.Errorf("cursor = %q", body.Cursor)
	}
	// The publisher DID is the subscriber identity; its profile description
	// must be recorded as a side effect.
	if users.upserts[testPublisherDID] != "i like protocols" {
		t.Errorf("subscriber upsert = %v", users.upserts)
	}
}

func TestSkeletonHandler_EmptyPageOmitsCursor(t *testing.T) {
	h := newHandler(&stubMatchRepo{}, &stubUserRepo{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, skeletonRequest(url.Values{"feed": {testFeedURI}}))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if _, ok := raw["cursor"]; ok {
		t.Error("cursor must be omitted on the last page")
	}
	if string(raw["feed"]) != "[]" {
		t.Errorf("feed = %s, want []", raw["feed"])
	}
}

func TestSkeletonHandler_RejectsBadRequests(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
	}{
		{"missing feed", url.Values{}},
		{"not an at-uri", url.Values{"feed": {"https://example.com/feed"}}},
		{"wrong publisher", url.Values{"feed": {"at://did:web:other.example/app.bsky.feed.generator/" + testFeedRkey}}},
		{"wrong collection", url.Values{"feed": {"at://" + testPublisherDID + "/app.bsky.feed.post/" + testFeedRkey}}},
		{"unknown rkey", url.Values{"feed": {"at://" + testPublisherDID + "/app.bsky.feed.generator/other"}}},
		{"non-numeric limit", url.Values{"feed": {testFeedURI}, "limit": {"lots"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(&stubMatchRepo{}, &stubUserRepo{})
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, skeletonRequest(tt.query))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}
