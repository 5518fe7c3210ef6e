// Package migrations embeds the SQL migration files for use with the goose
// programmatic API, both in integration tests and at server startup.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time, so the binary
// carries its schema with it instead of depending on a filesystem path.
//
//go:embed *.sql
var FS embed.FS
