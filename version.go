package clipdur

import "runtime"

// Version is the semantic version of clipdur.
const Version = "0.1.0"

// VersionInfo describes the running build.
type VersionInfo struct {
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
}

// GetVersionInfo returns build information.
//
// GitCommit and BuildTime are set at build time via -ldflags:
//
//	go build -ldflags="-X github.com/simonhull/clipdur.gitCommit=$(git rev-parse HEAD) \
//	  -X github.com/simonhull/clipdur.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/clipdur
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:   Version,
		GitCommit: gitCommit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
}

// String formats the build for a -version flag.
func (v VersionInfo) String() string {
	return "clipdur " + v.Version + " (commit " + v.GitCommit + ", built " + v.BuildTime + ", " + v.GoVersion + ")"
}

var (
	gitCommit = "unknown"
	buildTime = "unknown"
)
