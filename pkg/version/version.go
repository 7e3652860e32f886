// Package version exposes build metadata injected with -ldflags.
package version

import "github.com/Masterminds/semver/v3"

// Set at build time:
//
//	go build -ldflags "-X github.com/rshade/ghgcalc/pkg/version.version=1.2.0"
//
//nolint:gochecknoglobals // ldflags targets.
var (
	version   = "0.1.0-dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// Name is the binary name.
const Name = "ghgcalc"

// GetVersion returns the semantic version of the build.
func GetVersion() string {
	return version
}

// GetGitCommit returns the commit the binary was built from.
func GetGitCommit() string {
	return gitCommit
}

// GetBuildDate returns the build timestamp.
func GetBuildDate() string {
	return buildDate
}

// IsRelease reports whether the version is a valid semver without a
// prerelease suffix.
func IsRelease() bool {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return v.Prerelease() == ""
}
