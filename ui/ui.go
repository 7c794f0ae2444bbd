// Package ui holds the embedded templates and static assets so the
// server ships as a single binary.
package ui

import "embed"

//go:embed "html" "static"
var Files embed.FS
