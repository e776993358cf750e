package gateway

import (
	"errors"
	"fmt"
)

// Kind classifies a gateway failure so that callers can branch on the
// failure class without inspecting message text.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindPermission
	KindNotFound
	KindSchemaMismatch
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPermission:
		return "permission"
	case KindNotFound:
		return "not found"
	case KindSchemaMismatch:
		return "schema mismatch"
	case KindTransport:
		return "transport"
	}
	return "unknown"
}

// Error is the classified error every gateway operation returns on failure.
// The classification decision is made here, at the gateway boundary; upper
// layers match on Kind (and Column for schema mismatches) only.
type Error struct {
	Kind Kind
	Op   string
	// Column names the missing column for KindSchemaMismatch errors.
	Column string
	Err    error
}

func (e *Error) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s: %s (column %q): %v", e.Op, e.Kind, e.Column, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the classification from err, or KindUnknown if err is
// not a gateway error.
func KindOf(err error) Kind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindUnknown
}

// MissingColumn returns the column name of a schema-mismatch error, or ""
// for any other error.
func MissingColumn(err error) string {
	var ge *Error
	if errors.As(err, &ge) && ge.Kind == KindSchemaMismatch {
		return ge.Column
	}
	return ""
}
