// Package views computes everything the presentation layer shows: the
// role-filtered, searched, sorted and paginated projections of the
// snapshot, plus the aggregate stats. Every function here is pure: the
// same snapshot and parameters always produce the same projection, and
// nothing is mutated or cached.
package views

import "github.com/dmitrijs2005/kaizenlib/internal/client/models"

// Visible reports whether viewer may see r at all.
//
// DELETED records are invisible to everyone, always. HIDDEN records stay
// visible to admins so they can review and restore them.
func Visible(r *models.Record, viewer *models.User) bool {
	switch r.Status {
	case models.StatusDeleted:
		return false
	case models.StatusHidden:
		return viewer.Role == models.RoleAdmin
	}
	return true
}

// VisibleMine reports whether r belongs in viewer's personal
// ("my contributions") view: visible, and authored by the viewer.
func VisibleMine(r *models.Record, viewer *models.User) bool {
	if r.AuthorID != viewer.ID {
		return false
	}
	// Own hidden records stay listed so the author knows they are hidden;
	// deleted ones are gone like everywhere else.
	return r.Status != models.StatusDeleted
}
