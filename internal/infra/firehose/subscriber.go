package firehose

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"interest-feed/internal/domain/entity"
	"interest-feed/internal/repository"
)

const (
	cursorServiceName  = "jetstream"
	cursorSaveInterval = 5 * time.Second
	reconnectDelay     = 5 * time.Second
)

// Processor receives the classified operations of one event. A non-nil error
// means the batch was not durably applied; the subscriber then resumes from
// the last persisted cursor so the batch is replayed rather than skipped.
type Processor interface {
	ProcessBatch(ctx context.Context, creates []*entity.Post, deletes []string) error
}

// Subscriber connects to a Jetstream endpoint and drives events through the
// classifier into the processor, sequentially and in stream order. There is
// exactly one subscriber per process; batches are never processed
// concurrently with each other.
type Subscriber struct {
	url       string
	processor Processor
	cursors   repository.CursorRepository
	logger    *slog.Logger
	metrics   *Metrics

	now func() time.Time
}

// NewSubscriber creates a firehose subscriber.
func NewSubscriber(
	firehoseURL string,
	processor Processor,
	cursors repository.CursorRepository,
	logger *slog.Logger,
	metrics *Metrics,
) *Subscriber {
	return &Subscriber{
		url:       firehoseURL,
		processor: processor,
		cursors:   cursors,
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Start consumes the firehose until the context is cancelled, reconnecting on
// transient errors from the last persisted cursor.
func (s *Subscriber) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err := s.subscribe(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("firehose connection error, reconnecting",
					slog.Any("error", err))
				s.metrics.Reconnects.Inc()
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(reconnectDelay):
				}
			}
		}
	}
}

func (s *Subscriber) buildURL(cursor int64) string {
	u, err := url.Parse(s.url)
	if err != nil {
		return s.url
	}
	q := u.Query()
	q.Add("wantedCollections", PostCollection)
	if cursor > 0 {
		q.Set("cursor", fmt.Sprintf("%d", cursor))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (s *Subscriber) subscribe(ctx context.Context) error {
	// Connecting without the cursor would gap the stream past unprocessed
	// data, so a load failure retries via the reconnect loop instead.
	cursor, err := s.cursors.Get(ctx, cursorServiceName)
	if err != nil {
		return fmt.Errorf("load cursor: %w", err)
	}

	wsURL := s.buildURL(cursor)
	s.logger.Info("connecting to firehose", slog.String("url", wsURL))

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial firehose: %w", err)
	}
	defer func() { _ = conn.Close() }()

	s.logger.Info("connected to firehose")

	// Close the connection when the context ends so ReadMessage unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	var latestCursor int64
	lastCursorSave := s.now()

	for {
		if ctx.Err() != nil {
			return s.saveCursor(latestCursor)
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return s.saveCursor(latestCursor)
			}
			return fmt.Errorf("read message: %w", err)
		}

		event, err := ParseEvent(message)
		if err != nil {
			// Malformed events are skipped; the stream keeps flowing.
			s.logger.Error("failed to parse event", slog.Any("error", err))
			s.metrics.DecodeErrors.Inc()
			continue
		}

		s.metrics.EventsTotal.Inc()
		if event.Kind == KindCommit {
			s.metrics.CommitsTotal.Inc()
		}

		ops := Classify(event, s.now().UTC())
		if !ops.Empty() {
			if err := s.processor.ProcessBatch(ctx, ops.Creates, ops.Deletes); err != nil {
				// Do not advance past unprocessed data: resuming from the
				// persisted cursor replays this event.
				s.metrics.BatchesTotal.WithLabelValues("failure").Inc()
				return fmt.Errorf("process batch: %w", err)
			}
			s.metrics.BatchesTotal.WithLabelValues("success").Inc()
		}

		latestCursor = event.TimeUS

		if s.now().Sub(lastCursorSave) >= cursorSaveInterval {
			if err := s.saveCursor(latestCursor); err != nil {
				s.logger.Error("failed to save cursor", slog.Any("error", err))
			} else {
				lastCursorSave = s.now()
			}
		}
	}
}

func (s *Subscriber) saveCursor(cursor int64) error {
	if cursor == 0 {
		return nil
	}
	// Use a background context so the final save still runs during shutdown.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.cursors.Save(ctx, cursorServiceName, cursor); err != nil {
		return fmt.Errorf("save cursor: %w", err)
	}
	s.metrics.CursorSaved.Set(float64(cursor))
	return nil
}
