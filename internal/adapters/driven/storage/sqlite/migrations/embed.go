// Package migrations embeds the SQL migration files for the sqlite store.
package migrations

import "embed"

// FS holds all migration files.
//
//go:embed *.sql
var FS embed.FS
