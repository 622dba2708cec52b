// Package build holds build-time information stamped into the bmake binary.
package build

// These are overwritten with -ldflags "-X go.trai.ch/bmake/internal/build.Version=..." at release time.
var (
	// Version is the released version of bmake.
	Version = "dev"
	// Commit is the git revision the binary was built from.
	Commit = "none"
	// Date is the build timestamp in RFC 3339 format.
	Date = "unknown"
)
