package version //nolint:revive // package name intentionally matches build-info convention

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

//nolint:gochecknoglobals //version information is set at build time
var (
	Repository = "github.com/tibue99/ezcord-sub000"
	Version    string
	Commit     string
	Date       string
)

// Info is the build information of the running binary.
type Info struct {
	Repository string `json:"repository"`
	Version    string `json:"version"`
	Commit     string `json:"commit"`
	Date       string `json:"date"`
	Go         string `json:"go"`
}

// Get returns the ldflags values, completed from the module build info when they are unset.
func Get() Info {
	info := Info{
		Repository: Repository,
		Version:    Version,
		Commit:     Commit,
		Date:       Date,
		Go:         runtime.Version(),
	}

	if build, ok := debug.ReadBuildInfo(); ok {
		if info.Version == "" && build.Main.Version != "" {
			info.Version = build.Main.Version
		}
		for _, setting := range build.Settings {
			switch setting.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = setting.Value
				}
			case "vcs.time":
				if info.Date == "" {
					info.Date = setting.Value
				}
			}
		}
	}

	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "unknown"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return info
}

func (i Info) String() string {
	return fmt.Sprintf("%s (commit: %s, date: %s, go: %s)", i.Version, i.Commit, i.Date, i.Go)
}
