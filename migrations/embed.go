// Package migrations embeds the PostgreSQL schema migrations so the server
// and the migrate CLI run the exact files shipped with the binary.
package migrations

import "embed"

// FS holds every *.up.sql and *.down.sql file of this directory
//
//go:embed *.sql
var FS embed.FS
