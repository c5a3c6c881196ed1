// Package buildinfo exposes the binary's version, commit, and build date.
//
// Release builds stamp the three variables via ldflags:
//
//	go build -ldflags "-X github.com/pathlens/pathlens/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/pathlens/pathlens/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/pathlens/pathlens/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Plain `go build` and `go install` fall back to the VCS metadata the Go
// toolchain embeds on its own, so even unstamped binaries report where
// they came from.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Set via ldflags; left empty they are filled from debug.ReadBuildInfo.
var (
	Version string
	Commit  string
	Date    string
)

func init() {
	bi, ok := debug.ReadBuildInfo()
	if ok {
		if Version == "" && bi.Main.Version != "" {
			Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if Commit == "" {
					Commit = s.Value
				}
			case "vcs.time":
				if Date == "" {
					Date = s.Value
				}
			}
		}
	}
	if Version == "" {
		Version = "dev"
	}
	if Commit == "" {
		Commit = "none"
	}
	if Date == "" {
		Date = "unknown"
	}
}

// String returns the three stamps on separate lines.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
