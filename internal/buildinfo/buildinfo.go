// Package buildinfo holds the release metadata stamped into the binary.
package buildinfo

import "fmt"

// Set from cmd/server, which receives them through -ldflags -X.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// Summary renders the metadata as a single line for logs and -version.
func Summary() string {
	return fmt.Sprintf("chatbridge Version: %s, Commit: %s, BuiltAt: %s", Version, Commit, BuildDate)
}
