package static

import "embed"

// FS exposes checkout static assets for HTTP serving.
//
//go:embed *.css
var FS embed.FS
