// Package version carries the build-time identity of the module. Version is
// a variable rather than a constant so release builds can override it with
// -ldflags "-X fraccover/internal/version.Version=...".
package version

// Version is the semantic version reported in lineage metadata.
var Version = "0.1.0"
