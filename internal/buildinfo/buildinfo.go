// Package buildinfo holds build-time variables injected via ldflags.
package buildinfo

import "fmt"

// Populated by -ldflags at build time; defaults used for local dev.
var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// VersionLine is the text printed by `notes --version`.
func VersionLine() string {
	return fmt.Sprintf("notes %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}
