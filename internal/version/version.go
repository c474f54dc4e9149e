// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package version carries build metadata injected with -ldflags, e.g.
//
//	-X github.com/ManuGH/videosvc/internal/version.Version=v0.2.0
package version

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version is the release tag. "dev" means it was not injected.
	Version = "dev"

	// Commit is the git short hash of the build.
	Commit = "unknown"

	// Date is the build timestamp.
	Date = "unknown"
)

// Resolved returns Version, falling back to the main module version that
// `go install module@version` records.
func Resolved() string {
	if Version != "dev" && Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

// String renders the full build identity for -version output.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Resolved(), Commit, Date)
}
