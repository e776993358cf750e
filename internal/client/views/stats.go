package views

import "github.com/dmitrijs2005/kaizenlib/internal/client/models"

// Stats are the dashboard aggregates over a filtered record set. They are
// recomputed from scratch on every composition, never maintained
// incrementally.
type Stats struct {
	Count      int
	ByKind     map[models.Kind]int
	ByUnit     map[string]int
	BySector   map[models.Sector]int
	AvgCost    float64
	TotalViews int64
}

// ComputeStats aggregates the given (already filtered) records.
func ComputeStats(records []models.Record) Stats {
	s := Stats{
		Count:    len(records),
		ByKind:   make(map[models.Kind]int),
		ByUnit:   make(map[string]int),
		BySector: make(map[models.Sector]int),
	}

	var costSum float64
	for i := range records {
		r := &records[i]
		s.ByKind[r.Kind]++
		s.ByUnit[r.Unit]++
		s.BySector[r.Sector]++
		costSum += r.Cost
		s.TotalViews += r.Views
	}

	if s.Count > 0 {
		s.AvgCost = costSum / float64(s.Count)
	}
	return s
}
