// Package version holds build metadata injected at link time.
package version

// Version is overridden via -ldflags at release build time.
var Version = "dev"

// Commit and BuildDate are likewise injected at link time.
var (
	Commit    = "none"
	BuildDate = "unknown"
)
