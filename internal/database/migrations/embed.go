// Package migrations embeds the schema for every supported dialect. Each
// dialect lives in its own directory named after the driver.
package migrations

import "embed"

//go:embed mysql/*.sql postgres/*.sql sqlite/*.sql
var FS embed.FS
