// Package version reports build information stamped at link time
package version

// BuildInfo holds version information about the service build
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information
// Set with -ldflags "-X '<module>/internal/core/version.version=v0.1.0' -X ...commit=abcd -X ...date=2026-03-02"
func Info() BuildInfo {
	return BuildInfo{
		Service: "dealflow",
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
