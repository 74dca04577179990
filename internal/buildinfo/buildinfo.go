// Package buildinfo holds release metadata stamped in at link time.
package buildinfo

// Set with -ldflags "-X" by the release build. They stay empty for local
// builds, where the module's debug.BuildInfo is used instead.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)
