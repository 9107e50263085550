// Package version carries build metadata stamped at link time with -ldflags -X.
package version

import (
	"fmt"
	"runtime"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String renders the --version line.
func String() string {
	return fmt.Sprintf("zwatch %s (commit=%s, date=%s, go=%s)", Version, Commit, Date, runtime.Version())
}
