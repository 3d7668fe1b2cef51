package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersion_ReportsBuildMetadata(t *testing.T) {
	info := GetVersion()

	assert.Equal(t, Version, info.Version)
	assert.Equal(t, Commit, info.Commit)
	assert.Equal(t, BuildDate, info.BuildDate)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.Compiler, info.Compiler)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestGetVersion_DevHasNoTag(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "dev"
	assert.Empty(t, GetVersion().Tag)

	Version = "v1.4.0"
	assert.Equal(t, "release", GetVersion().Tag)
}

func TestTag(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.0.0", "release"},
		{"v2.3.1", "release"},
		{"v0.9.0-rc.1", "prerelease"},
		{"1.0.0-beta", "prerelease"},
		{"dev", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Tag(tt.in), tt.in)
	}
}

func TestInfo_String(t *testing.T) {
	info := Info{Version: "1.0.0", Commit: "abc123", BuildDate: "2026-01-02"}
	assert.Equal(t, "portsniff 1.0.0 (commit: abc123, date: 2026-01-02)", info.String())
}
