package views

import (
	"sort"
	"strings"

	"github.com/dmitrijs2005/kaizenlib/internal/client/models"
	"github.com/dmitrijs2005/kaizenlib/internal/client/snapshot"
)

// DefaultPageSize is the fixed page size of the library views.
const DefaultPageSize = 9

// SortKey selects the single field a view is ordered by.
type SortKey string

const (
	SortByDate  SortKey = "date"
	SortByTitle SortKey = "title"
	SortByViews SortKey = "views"
	SortByCost  SortKey = "cost"
	SortByUnit  SortKey = "unit"
)

// Params are the UI-selected view parameters. The zero value means: no
// filters, snapshot order (newest first), first page of DefaultPageSize.
type Params struct {
	// Search is matched case-insensitively as a substring of the title.
	Search string

	// DateFrom / DateTo bound the record date, inclusive on both ends,
	// in YYYY-MM-DD form. Empty means unbounded.
	DateFrom string
	DateTo   string

	// Unit / Sector / Kind filter on exact value; zero value means any.
	Unit   string
	Sector models.Sector
	Kind   models.Kind

	// SortKey of "" keeps the snapshot's newest-first order.
	SortKey  SortKey
	SortDesc bool

	Page     int
	PageSize int

	// Mine restricts the view to the viewer's own records.
	Mine bool
}

// Changing any filter, search or sort parameter restarts paging from the
// first page; the With* helpers below encode that rule.

func (p Params) WithSearch(s string) Params {
	p.Search = s
	p.Page = 1
	return p
}

func (p Params) WithDateRange(from, to string) Params {
	p.DateFrom, p.DateTo = from, to
	p.Page = 1
	return p
}

func (p Params) WithUnit(unit string) Params {
	p.Unit = unit
	p.Page = 1
	return p
}

func (p Params) WithSector(sector models.Sector) Params {
	p.Sector = sector
	p.Page = 1
	return p
}

func (p Params) WithKind(kind models.Kind) Params {
	p.Kind = kind
	p.Page = 1
	return p
}

func (p Params) WithMine(mine bool) Params {
	p.Mine = mine
	p.Page = 1
	return p
}

// WithSort selects a sort key; selecting the already-active key flips the
// direction instead.
func (p Params) WithSort(key SortKey) Params {
	if p.SortKey == key {
		p.SortDesc = !p.SortDesc
	} else {
		p.SortKey = key
		p.SortDesc = false
	}
	p.Page = 1
	return p
}

func (p Params) WithPage(page int) Params {
	p.Page = page
	return p
}

// Projection is one fully computed page of a view.
type Projection struct {
	// Records is the current page, in final order.
	Records []models.Record
	// Total counts all filtered-in records across pages.
	Total     int
	Page      int
	PageCount int
	Stats     Stats
}

// Compose filters, sorts, aggregates and paginates the snapshot for the
// given viewer. It never mutates the snapshot.
func Compose(snap *snapshot.Snapshot, viewer models.User, p Params) Projection {
	filtered := filterRecords(snap.Records, &viewer, p)
	sortRecords(filtered, p)

	stats := ComputeStats(filtered)

	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	total := len(filtered)
	pageCount := (total + pageSize - 1) / pageSize

	page := p.Page
	if page < 1 {
		page = 1
	}
	if pageCount > 0 && page > pageCount {
		page = pageCount
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Projection{
		Records:   filtered[start:end],
		Total:     total,
		Page:      page,
		PageCount: pageCount,
		Stats:     stats,
	}
}

func filterRecords(records []models.Record, viewer *models.User, p Params) []models.Record {
	search := strings.ToLower(p.Search)

	out := make([]models.Record, 0, len(records))
	for i := range records {
		r := &records[i]

		if p.Mine {
			if !VisibleMine(r, viewer) {
				continue
			}
		} else if !Visible(r, viewer) {
			continue
		}

		if search != "" && !strings.Contains(strings.ToLower(r.Title), search) {
			continue
		}
		// Dates are YYYY-MM-DD, so the inclusive range check is a plain
		// lexical comparison.
		if p.DateFrom != "" && r.Date < p.DateFrom {
			continue
		}
		if p.DateTo != "" && r.Date > p.DateTo {
			continue
		}
		if p.Unit != "" && r.Unit != p.Unit {
			continue
		}
		if p.Sector != "" && r.Sector != p.Sector {
			continue
		}
		if p.Kind != "" && r.Kind != p.Kind {
			continue
		}

		out = append(out, *r)
	}
	return out
}

// sortRecords orders by exactly one key. The sort is stable so records
// that compare equal keep their snapshot (newest-first) relative order.
func sortRecords(records []models.Record, p Params) {
	if p.SortKey == "" {
		return
	}

	less := func(a, b *models.Record) bool { return false }
	switch p.SortKey {
	case SortByDate:
		less = func(a, b *models.Record) bool { return a.Date < b.Date }
	case SortByTitle:
		less = func(a, b *models.Record) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }
	case SortByViews:
		less = func(a, b *models.Record) bool { return a.Views < b.Views }
	case SortByCost:
		less = func(a, b *models.Record) bool { return a.Cost < b.Cost }
	case SortByUnit:
		less = func(a, b *models.Record) bool { return a.Unit < b.Unit }
	}

	sort.SliceStable(records, func(i, j int) bool {
		if p.SortDesc {
			return less(&records[j], &records[i])
		}
		return less(&records[i], &records[j])
	})
}
