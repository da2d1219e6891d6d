// Package migrations embeds the airportdb schema and a small sample data set.
// They are applied by "flysql migrate" for local development and by the
// integration test container.
package migrations

import "embed"

// FS holds the NNN_name.{up,down}.sql migration files.
//
//go:embed *.sql
var FS embed.FS
