package web

import "embed"

// Templates embeds the print templates.
//
//go:embed templates/print/*.html
var Templates embed.FS
