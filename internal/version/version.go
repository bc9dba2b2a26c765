// SPDX-License-Identifier: MIT

// Package version holds build metadata, set with -ldflags at release time.
package version

var (
	// Version is the current application version.
	Version = "v0.1.0-dev"

	// Commit is the git short hash of the build.
	Commit = "unknown"

	// Date is the build timestamp.
	Date = "unknown"
)

// String renders version, commit and date on one line.
func String() string {
	return Version + " (" + Commit + ", " + Date + ")"
}
