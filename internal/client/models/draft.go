package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrValidation wraps all per-field validation failures produced by
// Draft.Finalize. Match with errors.Is.
var ErrValidation = errors.New("validation error")

// FieldError describes a single invalid or missing draft field,
// suitable for inline display next to the field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors is the set of field errors of one failed validation.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation error"
	}
	s := v[0].Error()
	if len(v) > 1 {
		s = fmt.Sprintf("%s (and %d more)", s, len(v)-1)
	}
	return s
}

func (v ValidationErrors) Unwrap() error { return ErrValidation }

// AttachmentUpload is a not-yet-uploaded local attachment carried by a
// draft. The bytes are uploaded by the mutation pipeline before any
// record write happens.
type AttachmentUpload struct {
	Name string
	Data []byte
}

// Draft is the partially-filled shape of a record while the user is still
// composing it. Everything is optional here; Finalize converts a draft
// into a complete Record or reports what is missing.
type Draft struct {
	// ID is empty for a brand-new draft, or carries the id of the record
	// being edited.
	ID         string
	Title      string
	Sector     Sector
	Unit       string
	Date       string
	Kind       Kind
	SourceUnit string

	BeforeDesc   string
	BeforeImages []string
	AfterDesc    string
	AfterImages  []string

	Benefits []Benefit
	Impact   string
	Cost     float64

	AttachmentName string
	AttachmentURL  string

	// Upload, when non-nil, is a local file to be uploaded on save.
	Upload *AttachmentUpload
}

// Validate checks every submission requirement and returns one FieldError
// per violation. An empty result means the draft is complete.
func (d *Draft) Validate() ValidationErrors {
	var errs ValidationErrors

	if d.Title == "" {
		errs = append(errs, FieldError{"title", "title is required"})
	}
	if !d.Sector.Valid() {
		errs = append(errs, FieldError{"sector", "sector is required"})
	}
	if !ValidUnit(d.Unit) {
		errs = append(errs, FieldError{"unit", "unit must be one of the known units"})
	}
	if d.Date == "" {
		errs = append(errs, FieldError{"date", "date is required"})
	} else if _, err := time.Parse("2006-01-02", d.Date); err != nil {
		errs = append(errs, FieldError{"date", "date must be YYYY-MM-DD"})
	}
	if !d.Kind.Valid() {
		errs = append(errs, FieldError{"kind", "kind is required"})
	}
	if d.Kind == KindAdopted && d.SourceUnit == "" {
		errs = append(errs, FieldError{"source_unit", "source unit is required for adopted ideas"})
	}
	if len(d.Benefits) == 0 {
		errs = append(errs, FieldError{"benefits", "at least one benefit is required"})
	}
	for _, b := range d.Benefits {
		if !b.Valid() {
			errs = append(errs, FieldError{"benefits", fmt.Sprintf("unknown benefit %q", b)})
			break
		}
	}
	if d.Cost < 0 {
		errs = append(errs, FieldError{"cost", "cost must not be negative"})
	}

	return errs
}

// Finalize validates the draft and converts it into a Record.
//
// A draft without an ID becomes a new record carrying a client-generated
// sentinel id and status ACTIVE; author, timestamps and history are filled
// in by the mutation pipeline on save. A draft with an ID keeps it, edits
// of the immutable fields are applied on top of the stored record by the
// pipeline.
func (d *Draft) Finalize() (*Record, error) {
	if errs := d.Validate(); len(errs) > 0 {
		return nil, errs
	}

	id := d.ID
	if id == "" {
		id = NewRecordID()
	}

	sourceUnit := d.SourceUnit
	if d.Kind == KindOriginal {
		sourceUnit = ""
	}

	return &Record{
		ID:             id,
		Title:          d.Title,
		Sector:         d.Sector,
		Unit:           d.Unit,
		Date:           d.Date,
		Kind:           d.Kind,
		SourceUnit:     sourceUnit,
		BeforeDesc:     d.BeforeDesc,
		BeforeImages:   append([]string{}, d.BeforeImages...),
		AfterDesc:      d.AfterDesc,
		AfterImages:    append([]string{}, d.AfterImages...),
		Benefits:       append([]Benefit{}, d.Benefits...),
		Impact:         d.Impact,
		Cost:           d.Cost,
		AttachmentName: d.AttachmentName,
		AttachmentURL:  d.AttachmentURL,
		Status:         StatusActive,
	}, nil
}
