package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() *Draft {
	return &Draft{
		Title:    "Shorter changeover on line 2",
		Sector:   SectorProcess,
		Unit:     "TNK",
		Date:     "2024-05-12",
		Kind:     KindOriginal,
		Benefits: []Benefit{BenefitProductiv},
		Cost:     150000,
	}
}

func TestDraft_Validate_OK(t *testing.T) {
	d := validDraft()
	assert.Empty(t, d.Validate())
}

func TestDraft_Validate_ReportsEachMissingField(t *testing.T) {
	d := &Draft{Cost: -1}
	errs := d.Validate()

	fields := make(map[string]bool)
	for _, e := range errs {
		fields[e.Field] = true
	}

	for _, want := range []string{"title", "sector", "unit", "date", "kind", "benefits", "cost"} {
		assert.True(t, fields[want], "expected a field error for %q", want)
	}
}

func TestDraft_Validate_SourceUnitRequiredForAdopted(t *testing.T) {
	d := validDraft()
	d.Kind = KindAdopted

	errs := d.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "source_unit", errs[0].Field)

	d.SourceUnit = "HVN"
	assert.Empty(t, d.Validate())
}

func TestDraft_Validate_BadDateFormat(t *testing.T) {
	d := validDraft()
	d.Date = "12-05-2024"

	errs := d.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "date", errs[0].Field)
}

func TestDraft_Finalize_NewRecordGetsSentinelID(t *testing.T) {
	d := validDraft()

	r, err := d.Finalize()
	require.NoError(t, err)

	assert.True(t, r.IsNew())
	assert.Equal(t, StatusActive, r.Status)
	assert.Equal(t, d.Title, r.Title)
}

func TestDraft_Finalize_KeepsExistingID(t *testing.T) {
	d := validDraft()
	d.ID = "existing-id"

	r, err := d.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "existing-id", r.ID)
	assert.False(t, r.IsNew())
}

func TestDraft_Finalize_DropsSourceUnitForOriginal(t *testing.T) {
	d := validDraft()
	d.SourceUnit = "HVN" // leftover from a kind the user switched away from

	r, err := d.Finalize()
	require.NoError(t, err)
	assert.Empty(t, r.SourceUnit)
}

func TestDraft_Finalize_ValidationErrorMatchesSentinel(t *testing.T) {
	d := &Draft{}
	_, err := d.Finalize()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.NotEmpty(t, verrs)
}
