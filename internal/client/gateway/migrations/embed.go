// Package migrations embeds the SQL migrations for the remote kaizen
// schema, applied with goose at gateway init.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
