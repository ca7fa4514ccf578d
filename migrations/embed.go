// migrations/embed.go
package migrations

import "embed"

// FS holds the SQL migrations, applied in version order by golang-migrate.
//
//go:embed *.sql
var FS embed.FS
