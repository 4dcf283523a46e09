package version

import "fmt"

// Build metadata, overridden through ldflags at release time.
var (
	// Version is the semantic version of the build.
	Version = "0.1.0"
	// Commit is the short git SHA of the build (or "none").
	Commit = "none"
	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"
)

// Short returns only the semantic version.
func Short() string {
	return Version
}

// Full returns the version with its commit and build timestamp.
func Full() string {
	return fmt.Sprintf("version %s (commit %s, built %s)", Version, Commit, BuildTime)
}
