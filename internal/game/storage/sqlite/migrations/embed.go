// Package migrations embeds the SQL migration files for the game
// SQLite store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
