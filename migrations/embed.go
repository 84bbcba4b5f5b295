// Package migrations embeds the goose SQL migrations so the service binary
// can bring its schema up to date on start.
package migrations

import "embed"

// FS holds every *.sql migration in this directory
//
//go:embed *.sql
var FS embed.FS
