// Package migrations embeds the schema files for each supported SQL dialect.
package migrations

import "embed"

// FS contains one directory of ordered .sql files per dialect.
//
//go:embed sqlite/*.sql mysql/*.sql
var FS embed.FS
