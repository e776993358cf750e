// Package export renders a single record as delimited text, suitable for
// saving next to the attachment or pasting into a spreadsheet.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/kaizenlib/internal/client/models"
)

// utf8BOM makes spreadsheet tools pick up UTF-8 instead of the local
// legacy encoding.
const utf8BOM = "\ufeff"

// FileName returns the suggested name for an exported record.
func FileName(r *models.Record) string {
	return fmt.Sprintf("kaizen-%s-%s.csv", r.ID, r.Unit)
}

// CSV renders the record as a two-column field/value table. It is a pure
// function of the record; multi-line text is flattened to single lines.
func CSV(r *models.Record) ([]byte, error) {
	rows := [][]string{
		{"Field", "Value"},
		{"Title", r.Title},
		{"Unit", r.Unit},
		{"Sector", string(r.Sector)},
		{"Date", r.Date},
		{"Kind", string(r.Kind)},
		{"Source unit", r.SourceUnit},
		{"Before", flatten(r.BeforeDesc)},
		{"After", flatten(r.AfterDesc)},
		{"Benefits", joinBenefits(r.Benefits)},
		{"Impact", flatten(r.Impact)},
		{"Cost", fmt.Sprintf("%.0f VND", r.Cost)},
		{"Views", fmt.Sprintf("%d", r.Views)},
	}

	var buf bytes.Buffer
	buf.WriteString(utf8BOM)
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func joinBenefits(bs []models.Benefit) string {
	parts := make([]string, len(bs))
	for i, b := range bs {
		parts[i] = string(b)
	}
	return strings.Join(parts, ", ")
}
