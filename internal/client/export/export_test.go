package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/dmitrijs2005/kaizenlib/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() *models.Record {
	return &models.Record{
		ID:         "r1",
		Title:      `5S corner, "phase 2"`,
		Unit:       "TBT",
		Sector:     models.SectorFiveS,
		Date:       "2025-03-10",
		Kind:       models.KindAdopted,
		SourceUnit: "TNK",
		BeforeDesc: "tools scattered\non the floor",
		AfterDesc:  "shadow board installed",
		Benefits:   []models.Benefit{models.BenefitProductiv, models.BenefitSafety},
		Impact:     "setup time down 15 minutes",
		Cost:       250000,
		Views:      42,
	}
}

func TestCSV_RoundTripsThroughReader(t *testing.T) {
	out, err := CSV(sampleRecord())
	require.NoError(t, err)

	require.True(t, bytes.HasPrefix(out, []byte("\ufeff")))

	rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(out, []byte("\ufeff")))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 13)

	byField := map[string]string{}
	for _, row := range rows[1:] {
		require.Len(t, row, 2)
		byField[row[0]] = row[1]
	}

	// Quotes survive the round trip.
	assert.Equal(t, `5S corner, "phase 2"`, byField["Title"])
	// Newlines are flattened to single spaces.
	assert.Equal(t, "tools scattered on the floor", byField["Before"])
	assert.Equal(t, "PRODUCTIVITY, SAFETY", byField["Benefits"])
	assert.Equal(t, "250000 VND", byField["Cost"])
	assert.Equal(t, "42", byField["Views"])
	assert.Equal(t, "TNK", byField["Source unit"])
}

func TestCSV_OriginalRecordHasNoSourceUnit(t *testing.T) {
	r := sampleRecord()
	r.Kind = models.KindOriginal
	r.SourceUnit = ""

	out, err := CSV(r)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(out), "Source unit,\n") ||
		strings.Contains(string(out), "Source unit,\r\n"))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "kaizen-r1-TBT.csv", FileName(sampleRecord()))
}
