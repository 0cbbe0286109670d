// Package internal holds cross-cutting metadata shared by the spur
// binaries.
package internal

// Version is the release version reported by --version. Release builds
// override it with -ldflags "-X github.com/thisisbailin/spur/internal.Version=...".
var Version = "0.3.0"
