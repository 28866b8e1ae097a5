package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Version information - set at build time via ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info returns formatted version information
func Info() string {
	return fmt.Sprintf("yns version %s\n  commit: %s\n  built: %s\n  go: %s\n  os/arch: %s/%s",
		Version, Commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Short returns just the version string
func Short() string {
	return Version
}

// StripPrefix removes a single leading "v" from a release tag.
// "v1.2.0" becomes "1.2.0"; "vv1" becomes "v1".
func StripPrefix(tag string) string {
	return strings.TrimPrefix(tag, "v")
}
