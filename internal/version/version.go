// Package version holds the PicPyles build identity stamped in via -ldflags.
package version

var (
	// Version is the semantic version of this PicPyles build.
	Version = "0.1.0"

	// BuildTime is the UTC timestamp of the build, "unknown" for go run.
	BuildTime = "unknown"

	// GitCommit is the short git hash the binary was built from.
	GitCommit = "unknown"
)
