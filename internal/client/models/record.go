package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sector classifies which area of work an improvement touches.
type Sector string

const (
	SectorTools    Sector = "TOOLS"
	SectorFiveS    Sector = "5S"
	SectorSafety   Sector = "SAFETY"
	SectorFacility Sector = "FACILITY"
	SectorProcess  Sector = "PROCESS"
	SectorOther    Sector = "OTHER"
)

// Sectors lists every valid sector, in presentation order.
var Sectors = []Sector{SectorTools, SectorFiveS, SectorSafety, SectorFacility, SectorProcess, SectorOther}

func (s Sector) Valid() bool {
	for _, x := range Sectors {
		if s == x {
			return true
		}
	}
	return false
}

// Kind distinguishes an idea developed in-house from one adopted from
// another unit. An adopted record must name its source unit.
type Kind string

const (
	KindOriginal Kind = "ORIGINAL"
	KindAdopted  Kind = "ADOPTED"
)

func (k Kind) Valid() bool {
	return k == KindOriginal || k == KindAdopted
}

// Benefit is one of the closed set of benefit categories a record may claim.
type Benefit string

const (
	BenefitCustomerSat Benefit = "CUSTOMER_SATISFACTION"
	BenefitEmployeeSat Benefit = "EMPLOYEE_SATISFACTION"
	BenefitProductiv   Benefit = "PRODUCTIVITY"
	BenefitCost        Benefit = "COST_REDUCTION"
	BenefitFiveS       Benefit = "5S"
	BenefitSafety      Benefit = "SAFETY"
	BenefitEnvironment Benefit = "ENVIRONMENT"
	BenefitOther       Benefit = "OTHER"
)

var Benefits = []Benefit{
	BenefitCustomerSat, BenefitEmployeeSat, BenefitProductiv, BenefitCost,
	BenefitFiveS, BenefitSafety, BenefitEnvironment, BenefitOther,
}

func (b Benefit) Valid() bool {
	for _, x := range Benefits {
		if b == x {
			return true
		}
	}
	return false
}

// Status is the visibility state of a record.
//
// ACTIVE and HIDDEN toggle freely (admin only); DELETED is terminal.
// A DELETED record is never physically removed, it just stops appearing
// in every read path.
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusHidden  Status = "HIDDEN"
	StatusDeleted Status = "DELETED"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusHidden || s == StatusDeleted
}

// CanTransitionTo reports whether the status state machine permits moving
// from s to next. DELETED has no outgoing transitions.
func (s Status) CanTransitionTo(next Status) bool {
	if s == StatusDeleted {
		return false
	}
	if !next.Valid() || next == s {
		return false
	}
	return true
}

// AuditEntry is a single line of a record's append-only history.
type AuditEntry struct {
	Timestamp time.Time `json:"timestamp"`
	ActorID   string    `json:"actor_id"`
	ActorName string    `json:"actor_name"`
	Action    string    `json:"action"`
}

// NewIDPrefix marks a client-generated id of a record that has not been
// written yet. The server assigns the permanent id on insert.
const NewIDPrefix = "new-"

// NewRecordID returns a fresh sentinel id for an unsaved record.
func NewRecordID() string {
	return NewIDPrefix + uuid.NewString()
}

// Record is a committed improvement entry. All required fields are present;
// the optional/partial shape used while composing lives in Draft.
type Record struct {
	ID     string
	Title  string
	Sector Sector
	Unit   string
	// Date is the calendar day of the improvement in YYYY-MM-DD form.
	// Stored as a string so date-range comparisons are plain lexical
	// comparisons.
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
	Views    int64

	AttachmentName string
	AttachmentURL  string

	// AuthorID is set once at creation and never changed by edits.
	AuthorID  string
	CreatedAt time.Time
	UpdatedAt time.Time
	Status    Status
	History   []AuditEntry
}

// IsNew reports whether the record still carries a client-generated
// sentinel id, i.e. it has never been written to the remote store.
func (r *Record) IsNew() bool {
	return strings.HasPrefix(r.ID, NewIDPrefix)
}

// HasAttachment reports whether attachment metadata is present.
func (r *Record) HasAttachment() bool {
	return r.AttachmentName != "" || r.AttachmentURL != ""
}

// AppendHistory returns a copy of the history with one more entry.
// The original slice is not modified.
func AppendHistory(history []AuditEntry, e AuditEntry) []AuditEntry {
	out := make([]AuditEntry, 0, len(history)+1)
	out = append(out, history...)
	out = append(out, e)
	return out
}
