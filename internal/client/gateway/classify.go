package gateway

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes the gateway branches on.
const (
	pgUndefinedColumn       = "42703"
	pgInsufficientPrivilege = "42501"
	pgConnectionClass       = "08"
	pgIntegrityClass        = "23"
)

var columnRe = regexp.MustCompile(`column "([^"]+)"`)

// classify converts a raw driver error into a classified *Error. This is
// the single place the failure class is decided; nothing above the gateway
// looks at error text.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &Error{Kind: KindNotFound, Op: op, Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUndefinedColumn:
			col := pgErr.ColumnName
			if col == "" {
				if m := columnRe.FindStringSubmatch(pgErr.Message); m != nil {
					col = m[1]
				}
			}
			return &Error{Kind: KindSchemaMismatch, Op: op, Column: col, Err: err}
		case pgErr.Code == pgInsufficientPrivilege:
			return &Error{Kind: KindPermission, Op: op, Err: err}
		case strings.HasPrefix(pgErr.Code, pgIntegrityClass):
			return &Error{Kind: KindValidation, Op: op, Err: err}
		case strings.HasPrefix(pgErr.Code, pgConnectionClass):
			return &Error{Kind: KindTransport, Op: op, Err: err}
		}
		return &Error{Kind: KindUnknown, Op: op, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTransport, Op: op, Err: err}
	}

	return &Error{Kind: KindUnknown, Op: op, Err: err}
}

// isTransient reports whether a failed call is worth one more attempt
// (connection-level trouble, not a server-side rejection). Only read paths
// retry; writes stay single-shot.
func isTransient(err error) bool {
	if pgconn.SafeToRetry(err) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, pgConnectionClass)
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
