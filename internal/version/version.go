/*
Package version provides build information for arise.

Values are set via ldflags during build:

	go build -ldflags "-X github.com/arise-learning/arise/internal/version.Version=v0.3.0 \
	  -X github.com/arise-learning/arise/internal/version.Commit=$(git rev-parse --short HEAD) \
	  -X github.com/arise-learning/arise/internal/version.Date=$(date -u +%F)"

Unset values report a "dev" build.
*/
package version

var (
	// Version is the release tag (e.g., v0.3.0)
	Version = "dev"
	// Commit is the short git commit hash
	Commit = "none"
	// Date is the build date in UTC (YYYY-MM-DD)
	Date = "unknown"
)

// GetVersion returns the formatted build string.
func GetVersion() string {
	return FormatVersion(Version, Commit, Date)
}

// FormatVersion formats build components for display.
func FormatVersion(version, commit, date string) string {
	if version == "dev" {
		return version + " (development build)"
	}
	return version + " (commit: " + commit + ", built: " + date + ")"
}

// GetVersionComponents returns individual build components.
func GetVersionComponents() (version, commit, date string) {
	return Version, Commit, Date
}
