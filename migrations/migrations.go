// Package migrations embeds the SQL schema migrations.
package migrations

import "embed"

// FS holds every numbered up/down migration file.
//
//go:embed *.sql
var FS embed.FS
