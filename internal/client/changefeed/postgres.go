package changefeed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/kaizenlib/internal/logging"
	"github.com/jackc/pgx/v5"
	"github.com/sethvargo/go-retry"
)

// channelName is the Postgres NOTIFY channel the schema triggers publish
// on (see migrations/00002_notify.sql).
const channelName = "kaizen_changes"

// PostgresFeed listens on the store's notification channel over a
// dedicated native connection.
type PostgresFeed struct {
	dsn    string
	logger logging.Logger
	events chan Event
}

func NewPostgresFeed(dsn string, logger logging.Logger) *PostgresFeed {
	return &PostgresFeed{
		dsn:    dsn,
		logger: logger,
		events: make(chan Event, 1),
	}
}

func (f *PostgresFeed) Events() <-chan Event {
	return f.events
}

// Run listens until ctx is done, reconnecting with capped backoff when
// the connection drops. A notification that arrives while a previous one
// is still unconsumed is coalesced away: one pending signal is enough to
// trigger a full refresh.
func (f *PostgresFeed) Run(ctx context.Context) error {
	defer close(f.events)

	b := retry.WithCappedDuration(30*time.Second, retry.NewExponential(time.Second))

	for {
		err := f.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}
		f.logger.Warn(ctx, "change feed connection lost, reconnecting", "error", err)

		d, _ := b.Next()
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil
		}
	}
}

func (f *PostgresFeed) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, f.dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = conn.Close(closeCtx)
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+channelName); err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("wait for notification: %w", err)
		}

		select {
		case f.events <- Event{Table: n.Payload}:
		default:
			// A refresh is already pending; this signal adds nothing.
		}
	}
}
