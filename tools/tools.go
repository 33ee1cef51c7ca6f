//go:build tools
// +build tools

// Package tools documents development tool dependencies.
// These tools are installed globally via `go install` and are not tracked in go.mod
// since they are development tools, not runtime dependencies.
package tools

// Development tools (install via `go install`):
//
// Air - Live reload for Go apps (pair with DEV=true to reload templates from disk)
//   Install: go install github.com/air-verse/air@v1.63.0
//   Version: v1.63.0 (pinned 2025-01-01)
//   Docs: https://github.com/air-verse/air
//
// mockgen - regenerates internal/mocks (`go generate ./internal/mocks`)
//   Runs via `go run go.uber.org/mock/mockgen@v0.6.0`; the version matches go.mod.
