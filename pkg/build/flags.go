// SPDX-License-Identifier: MIT
//
// Package build manages build metadata embedded into the binary at compile
// time via -ldflags. Defaults are used when the binary is built without
// linker flags (e.g. during development with `go run`).
package build

type ldFlags struct {
	Name    string
	Time    string
	Commit  string
	Version string
}

// Package-level variables populated by -ldflags during compilation.
var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
	buildFlags   = &ldFlags{
		Name:    "pitchbatch",
		Time:    "unknown",
		Commit:  "unknown",
		Version: "dev",
	}
)

// Initialize copies any build information provided via ldflags into the
// buildFlags struct. Missing flags keep their development defaults.
func Initialize() {
	if buildName != "" {
		buildFlags.Name = buildName
	}
	if buildTime != "" {
		buildFlags.Time = buildTime
	}
	if buildCommit != "" {
		buildFlags.Commit = buildCommit
	}
	if buildVersion != "" {
		buildFlags.Version = buildVersion
	}
}

// GetBuildFlags returns the current build information.
func GetBuildFlags() *ldFlags {
	return buildFlags
}
