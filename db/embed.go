// Package db embeds the PostgreSQL migrations for builds tagged
// embed_migrations.
package db

import "embed"

//go:embed migrations
var Migrations embed.FS
