// Package appfs exposes embedded static assets, mainly the database migrations.
package appfs

import "embed"

//go:embed migrations
var FS embed.FS
