package version

import (
	"fmt"
	"runtime"
)

// Overridden at build time with -ldflags "-X".
var (
	Version   = "dev"     // ex: v0.3.0
	Commit    = "none"    // ex: abcd123
	BuildDate = "unknown" // ex: 2026-10-01T18:42:00Z
	GoVersion = runtime.Version()
)

// String renders the one-line banner used by `newtab version` and the startup log.
func String() string {
	return fmt.Sprintf("newtab %s (commit=%s, built=%s, go=%s)", Version, Commit, BuildDate, GoVersion)
}
