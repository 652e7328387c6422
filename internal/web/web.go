// Package web holds the server-rendered page templates.
package web

import "embed"

// Templates contains layout.html, partials.html and the pages/, forms/ and
// errors/ directories.
//
//go:embed templates
var Templates embed.FS
