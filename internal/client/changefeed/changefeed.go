// Package changefeed delivers "something changed" signals from the remote
// store. Events carry no payload delta; the synchronizer reacts to every
// event with a full refresh.
package changefeed

import "context"

// Event reports that a remote table was modified by some client.
type Event struct {
	// Table is the remote table name ("kaizens" or "profiles").
	Table string
}

// Feed is a long-lived subscription to remote change notifications.
type Feed interface {
	// Events returns the channel change signals are delivered on. The
	// channel is closed when Run returns.
	Events() <-chan Event

	// Run blocks, pumping notifications into Events until ctx is done.
	Run(ctx context.Context) error
}
