// Package version exposes build metadata for the apigen binary.
package version

import "fmt"

// Build-time variables injected via -ldflags:
//
//	go build -ldflags "-X github.com/modu-ai/apigen/pkg/version.Version=v0.3.1"
var (
	Version = "v0.3.0"
	Commit  = "none"
	Date    = "unknown"
)

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// GetFullVersion returns the version with commit and build date.
func GetFullVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}

// UserAgent is sent when schemas are fetched over HTTP.
func UserAgent() string {
	return "apigen/" + Version
}
