// Package migrations embeds the SQL schema. The server applies it with
// golang-migrate on startup; integration tests replay the *.up.sql files.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
