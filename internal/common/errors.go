// Package common defines shared sentinel errors used across the kaizen
// library client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// ErrorNotFound means the addressed entity does not exist in the
	// current snapshot or remote store.
	ErrorNotFound = errors.New("not found")

	// ErrorUnauthorized means the acting user's role does not permit the
	// operation.
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password, deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid username or password")
)
