package web

import "embed"

// EmbeddedFS holds the HTML templates and static assets for the web UI.
//
//go:embed templates static
var EmbeddedFS embed.FS
