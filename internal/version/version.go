package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Name is the program name printed by the version command.
const Name = "benchrun"

var (
	// Version is the semantic version (set by ldflags during build).
	Version = "dev"
	// Commit is the git commit hash (set by ldflags during build).
	Commit = "unknown"
	// Date is the build date (set by ldflags during build).
	Date = "unknown"
)

// Info is the build identity reported by `benchrun version`.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetInfo returns the build identity. Values not set through ldflags fall
// back to the VCS stamp the go tool embeds, so `go install` builds still
// report their commit.
func GetInfo() Info {
	return fromBuildInfo(Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}, readBuildInfo)
}

var readBuildInfo = debug.ReadBuildInfo

func fromBuildInfo(info Info, read func() (*debug.BuildInfo, bool)) Info {
	bi, ok := read()
	if !ok || bi == nil {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "unknown" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "unknown" {
				info.Date = s.Value
			}
		}
	}
	return info
}

// ShortCommit returns the first eight characters of the commit hash.
func (i Info) ShortCommit() string {
	if len(i.Commit) > 8 {
		return i.Commit[:8]
	}
	return i.Commit
}

// String returns the detailed line printed by `version --verbose`.
func (i Info) String() string {
	return fmt.Sprintf("Benchrun %s (%s) built %s with %s for %s",
		i.Version, i.ShortCommit(), i.Date, i.GoVersion, i.Platform)
}

// Short returns just the version number.
func (i Info) Short() string {
	return i.Version
}

// Line returns the default one-line output, e.g. "benchrun v1.2.0".
func (i Info) Line() string {
	return Name + " " + i.Short()
}
