// Package version reports the build identity of airsketch binaries.
package version

import "fmt"

// Set with -ldflags "-X github.com/chazu/airsketch/pkg/version.Version=..." at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Full returns the version with commit and build date. Development builds
// report just "dev".
func Full() string {
	if Version == "dev" {
		return Version
	}
	return fmt.Sprintf("%s (%s, built %s)", Version, GitCommit, BuildDate)
}
