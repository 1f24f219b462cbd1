// Package migrations holds the versioned SQL schema of the depreciation
// service. Files follow the golang-migrate naming convention
// <version>_<name>.up.sql / .down.sql.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
