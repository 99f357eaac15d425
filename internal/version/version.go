// Package version carries build metadata injected via -ldflags.
package version

var (
	// Version is the semantic version of the farewatch binary.
	Version = "dev"
	// Commit is the git revision the binary was built from.
	Commit = "unknown"
	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)
