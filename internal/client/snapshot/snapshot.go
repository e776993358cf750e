// Package snapshot owns the authoritative local copy of all users and
// records. The snapshot is replace-only: a refresh fetches both complete
// sets from the gateway and atomically swaps the whole snapshot in, or
// leaves the previous one untouched on any failure. Nothing in this
// package ever patches a snapshot in place.
package snapshot

import (
	"time"

	"github.com/dmitrijs2005/kaizenlib/internal/client/models"
)

// Snapshot is one consistent, immutable view of the remote state as last
// fetched. Consumers must treat it as read-only.
type Snapshot struct {
	// Users, ordered by display name ascending.
	Users []models.User
	// Records, newest creation first.
	Records []models.Record
	// FetchedAt is when this snapshot was pulled.
	FetchedAt time.Time
}

// RecordByID finds a record in the snapshot, or nil.
func (s *Snapshot) RecordByID(id string) *models.Record {
	for i := range s.Records {
		if s.Records[i].ID == id {
			return &s.Records[i]
		}
	}
	return nil
}

// UserByID finds a user in the snapshot, or nil.
func (s *Snapshot) UserByID(id string) *models.User {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return &s.Users[i]
		}
	}
	return nil
}
