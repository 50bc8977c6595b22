// Package version exposes build-time version information for the mafcheck
// binary. The variables are stamped via -ldflags at release time and keep
// their placeholder values in development builds.
package version

// Version is the mafcheck release version.
var Version = "dev"

// Commit is the Git hash of the source the binary was built from.
var Commit = "<unknown>"

// Date is the build timestamp.
var Date = "<unknown>"
