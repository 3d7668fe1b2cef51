// Package version provides build metadata for portsniff.
package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// These variables are injected at build time using -ldflags.
var (
	// Version holds the current version of portsniff.
	Version = "dev"
	// Commit holds the commit the binary was built from.
	Commit = ""
	// BuildDate holds the build timestamp.
	BuildDate = "unknown"
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Tag       string `json:"tag,omitempty" yaml:"tag,omitempty"`
	Commit    string `json:"commit,omitempty" yaml:"commit,omitempty"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Compiler  string `json:"compiler" yaml:"compiler"`
	Platform  string `json:"platform" yaml:"platform"`
}

// GetVersion returns the build metadata of the running binary.
func GetVersion() Info {
	return Info{
		Version:   Version,
		Tag:       Tag(Version),
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Compiler:  runtime.Compiler,
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a one-line summary.
func (i Info) String() string {
	return fmt.Sprintf("portsniff %s (commit: %s, date: %s)", i.Version, i.Commit, i.BuildDate)
}

// Tag classifies v as "release" or "prerelease". Versions that are not
// semantic versions (such as "dev") have no tag.
func Tag(v string) string {
	sv, err := semver.NewVersion(strings.TrimSpace(v))
	if err != nil {
		return ""
	}
	if sv.Prerelease() != "" {
		return "prerelease"
	}
	return "release"
}
