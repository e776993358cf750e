package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/kaizenlib/internal/client/views"
)

var errNotLoggedIn = errors.New("not logged in")

// currentView composes the projection for the present parameters over the
// latest snapshot.
func (a *App) currentView() (views.Projection, error) {
	if a.user == nil {
		return views.Projection{}, errNotLoggedIn
	}
	return views.Compose(a.sync.Current(), *a.user, a.params), nil
}

// List prints the current page of the record listing.
func (a *App) List(ctx context.Context) error {
	proj, err := a.currentView()
	if err != nil {
		return err
	}

	if proj.Total == 0 {
		printlnFn("No records match the current view")
		return nil
	}

	for _, r := range proj.Records {
		attach := " "
		if r.HasAttachment() {
			attach = "@"
		}
		printlnFn(fmt.Sprintf("%s %s  %-10s %-8s %-10s views:%-4d  %s",
			attach, r.Date, r.Unit, r.Kind, r.Sector, r.Views, r.Title))
		printlnFn("    id: " + r.ID)
	}
	printlnFn(fmt.Sprintf("Page %d of %d (%d records)", proj.Page, proj.PageCount, proj.Total))
	return nil
}

// Mine toggles between the full library and the viewer's own records.
func (a *App) Mine(ctx context.Context) error {
	if a.user == nil {
		return errNotLoggedIn
	}
	a.params = a.params.WithMine(!a.params.Mine)
	if a.params.Mine {
		printlnFn("Showing your records")
	} else {
		printlnFn("Showing all records")
	}
	return a.List(ctx)
}

// Search filters the listing by title substring; an empty term clears it.
func (a *App) Search(ctx context.Context, term string) error {
	if a.user == nil {
		return errNotLoggedIn
	}
	a.params = a.params.WithSearch(term)
	return a.List(ctx)
}

// Dates bounds the listing to an inclusive date range. "-" leaves an end
// open.
func (a *App) Dates(ctx context.Context, from, to string) error {
	if a.user == nil {
		return errNotLoggedIn
	}
	if from == "-" {
		from = ""
	}
	if to == "-" {
		to = ""
	}
	a.params = a.params.WithDateRange(from, to)
	return a.List(ctx)
}

// Sort selects a sort key; selecting the active key again flips direction.
func (a *App) Sort(ctx context.Context, key string) error {
	if a.user == nil {
		return errNotLoggedIn
	}

	k := views.SortKey(strings.ToLower(key))
	switch k {
	case views.SortByDate, views.SortByTitle, views.SortByViews, views.SortByCost, views.SortByUnit:
	default:
		return fmt.Errorf("unknown sort key %q (date, title, views, cost, unit)", key)
	}

	a.params = a.params.WithSort(k)
	return a.List(ctx)
}

// Page jumps to the given page of the current view.
func (a *App) Page(ctx context.Context, page string) error {
	if a.user == nil {
		return errNotLoggedIn
	}
	n, err := strconv.Atoi(page)
	if err != nil || n < 1 {
		return fmt.Errorf("page must be a positive number")
	}
	a.params = a.params.WithPage(n)
	return a.List(ctx)
}

// Stats prints dashboard aggregates over the records visible in the
// current view (all pages, not just the shown one).
func (a *App) Stats(ctx context.Context) error {
	proj, err := a.currentView()
	if err != nil {
		return err
	}

	s := proj.Stats
	printlnFn(fmt.Sprintf("Records: %d   Total views: %d   Avg cost: %.0f", s.Count, s.TotalViews, s.AvgCost))

	printlnFn("By kind:")
	for _, k := range sortedKeys(s.ByKind) {
		printlnFn(fmt.Sprintf("  %-10s %d", k, s.ByKind[k]))
	}
	printlnFn("By unit:")
	for _, u := range sortedKeys(s.ByUnit) {
		printlnFn(fmt.Sprintf("  %-10s %d", u, s.ByUnit[u]))
	}
	printlnFn("By sector:")
	for _, sec := range sortedKeys(s.BySector) {
		printlnFn(fmt.Sprintf("  %-10s %d", sec, s.BySector[sec]))
	}
	return nil
}

func sortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
