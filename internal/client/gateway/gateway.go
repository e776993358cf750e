// Package gateway is the narrow boundary to the remote store. It exposes
// list/insert/update operations for users and records and returns
// classified errors (see Error) so the layers above never pattern-match on
// message text.
package gateway

import (
	"context"
	"time"

	"github.com/dmitrijs2005/kaizenlib/internal/client/models"
)

// RecordPayload is the remote representation of a record write. The
// mutation pipeline builds it from a Record; OmitAttachment is set on the
// one-time fallback retry against schemas that predate the attachment
// columns.
type RecordPayload struct {
	Title      string
	Sector     models.Sector
	Unit       string
	Date       string
	Kind       models.Kind
	SourceUnit string

	BeforeDesc   string
	BeforeImages []string
	AfterDesc    string
	AfterImages  []string

	Benefits []models.Benefit
	Impact   string
	Cost     float64

	AttachmentName string
	AttachmentURL  string
	OmitAttachment bool

	AuthorID  string
	Status    models.Status
	History   []models.AuditEntry
	UpdatedAt time.Time
}

// UserPayload is the remote representation of a new user. PasswordHash is
// a bcrypt hash; the gateway never sees plaintext passwords.
type UserPayload struct {
	Username     string
	PasswordHash string
	FullName     string
	Role         models.Role
	Unit         string
}

// Gateway is the remote store boundary.
//
// ListRecords returns records newest-first by creation time; ListUsers
// returns users ordered by display name. Every method returns a *Error on
// failure.
type Gateway interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	ListRecords(ctx context.Context) ([]models.Record, error)

	InsertRecord(ctx context.Context, p RecordPayload) error
	UpdateRecord(ctx context.Context, id string, p RecordPayload) error
	UpdateRecordStatus(ctx context.Context, id string, status models.Status) error
	IncrementViews(ctx context.Context, id string) error

	InsertUser(ctx context.Context, p UserPayload) error
	DeleteUser(ctx context.Context, id string) error
	CountRecordsByAuthor(ctx context.Context, authorID string) (int, error)

	// GetUserCredentials looks a user up by username for login and returns
	// the stored password hash alongside the profile.
	GetUserCredentials(ctx context.Context, username string) (models.User, string, error)
}
