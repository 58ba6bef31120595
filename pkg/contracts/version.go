package contracts

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

const (
	// Version is the release shared by the server and indentctl
	Version = "1.2.0"

	// APIVersion prefixes the REST routes and versions the websocket events
	APIVersion = "v1"
)

// VersionInfo describes the running binary. The commit fields come from the
// VCS stamp the go tool embeds and stay empty for builds outside a checkout.
type VersionInfo struct {
	Version    string `json:"version"`
	APIVersion string `json:"api_version"`
	Commit     string `json:"commit,omitempty"`
	CommitTime string `json:"commit_time,omitempty"`
	Modified   bool   `json:"modified,omitempty"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// GetVersionInfo returns the version of the running binary
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:    Version,
		APIVersion: APIVersion,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}

	build, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range build.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Commit = s.Value
		case "vcs.time":
			info.CommitTime = s.Value
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// String formats the version for -version flags and startup banners
func (v VersionInfo) String() string {
	commit := "unknown"
	if v.Commit != "" {
		commit = v.Commit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		if v.Modified {
			commit += "-dirty"
		}
	}
	return fmt.Sprintf("indentdesk %s (api %s, commit %s, %s %s)",
		v.Version, v.APIVersion, commit, v.GoVersion, v.Platform)
}
