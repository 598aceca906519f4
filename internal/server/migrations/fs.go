// Package migrations embeds the schema migrations of the development API
// server, applied with goose on startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
