// Package steamlens provides embedded assets for production builds.
package steamlens

import "embed"

// Embedded assets for production builds.
// In dev mode (DEV=true), assets are loaded from disk for hot reloading.

//go:embed all:frontend/static
var StaticFS embed.FS

//go:embed all:frontend/templates
var TemplateFS embed.FS
