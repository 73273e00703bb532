//go:build tools
// +build tools

// Package tools documents development tool dependencies.
// These tools are installed globally via `go install` and are not tracked in go.mod
// since they are development tools, not runtime dependencies.
package tools

// Development tools (install via `go install`):
//
// Air - Live reload for the portfolio server while editing templates and CSS
//   Install: go install github.com/air-verse/air@v1.63.0
//   Version: v1.63.0 (pinned 2025-01-01)
//   Run:     air --build.cmd "go build -o ./tmp/damedesign ./cmd/damedesign" --build.bin ./tmp/damedesign
//   Docs: https://github.com/air-verse/air
//
// mockgen - Regenerates internal/mocks from the ports interfaces
//   Run:     go generate ./internal/mocks
//   Version: v0.6.0 (invoked through `go run`, see internal/mocks/generate.go)
//   Docs: https://github.com/uber-go/mock
