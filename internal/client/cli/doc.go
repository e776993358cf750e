// Package cli provides the interactive kaizen library command-line client.
//
// It wires configuration, the Postgres gateway, the attachment store, and an
// interactive REPL over a live local snapshot of the shared library. Typical
// flow: restore or prompt for credentials, load the snapshot, start the
// change-feed watcher, and execute user commands.
//
// Key features:
//   - Login / Logout with a persisted session
//   - Browse: list, search, date filters, sort, paging, "mine" view
//   - Create / edit records with attachment upload
//   - Hide / restore / delete records (admin)
//   - Manage accounts (admin)
//   - Export a record to CSV, dashboard stats, narrative suggestions
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
