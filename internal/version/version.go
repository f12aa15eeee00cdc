// Package version holds build metadata, set at link time with
// -ldflags "-X github.com/banshee-data/putxform/internal/version.Version=...".
package version

import "fmt"

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String returns the one-line form printed by putxform -version.
func String() string {
	return fmt.Sprintf("putxform %s (commit %s, built %s)", Version, GitSHA, BuildTime)
}
