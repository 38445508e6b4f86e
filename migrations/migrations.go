// Package migrations embeds the tern migration files for the API
// response cache schema.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
