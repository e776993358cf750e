package snapshot

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/kaizenlib/internal/client/changefeed"
	"github.com/dmitrijs2005/kaizenlib/internal/client/models"
	"github.com/dmitrijs2005/kaizenlib/internal/logging"
)

// Lister is the read-only slice of the gateway the synchronizer needs.
type Lister interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	ListRecords(ctx context.Context) ([]models.Record, error)
}

// Synchronizer keeps the local snapshot in sync with the remote store.
// It is the only writer of the snapshot; everything else only reads.
type Synchronizer struct {
	gw     Lister
	logger logging.Logger

	current atomic.Pointer[Snapshot]

	// refreshMu serializes refreshes. Two triggers may still race at the
	// store; the last completed swap wins, which is the specified
	// behavior (no merging).
	refreshMu sync.Mutex

	subsMu sync.Mutex
	subs   []chan struct{}
}

func NewSynchronizer(gw Lister, logger logging.Logger) *Synchronizer {
	s := &Synchronizer{gw: gw, logger: logger.With("component", "synchronizer")}
	s.current.Store(&Snapshot{})
	return s
}

// Current returns the latest snapshot. The returned value is immutable;
// a concurrent refresh replaces the pointer, never the contents.
func (s *Synchronizer) Current() *Snapshot {
	return s.current.Load()
}

// Refresh pulls the complete user and record sets and swaps in a new
// snapshot. On any gateway failure the previous snapshot stays as is and
// the error is logged and swallowed: stale-but-consistent beats
// partial-and-inconsistent, and derived views must never see a refresh
// failure.
func (s *Synchronizer) Refresh(ctx context.Context) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	users, err := s.gw.ListUsers(ctx)
	if err != nil {
		s.logger.Error(ctx, "refresh failed, keeping previous snapshot", "error", err)
		return
	}

	records, err := s.gw.ListRecords(ctx)
	if err != nil {
		s.logger.Error(ctx, "refresh failed, keeping previous snapshot", "error", err)
		return
	}

	s.current.Store(&Snapshot{Users: users, Records: records, FetchedAt: time.Now()})
	s.notify()
}

// Subscribe returns a channel that receives a signal after every
// successful refresh. Signals are coalesced; a slow subscriber sees at
// least one signal for any burst of refreshes.
func (s *Synchronizer) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.subsMu.Lock()
	s.subs = append(s.subs, ch)
	s.subsMu.Unlock()
	return ch
}

func (s *Synchronizer) notify() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Watch consumes change-feed events and answers each with a full refresh,
// regardless of which table changed or which client caused it. It returns
// when the feed closes or ctx is done.
func (s *Synchronizer) Watch(ctx context.Context, feed changefeed.Feed) {
	for {
		select {
		case _, ok := <-feed.Events():
			if !ok {
				return
			}
			s.Refresh(ctx)
		case <-ctx.Done():
			return
		}
	}
}
