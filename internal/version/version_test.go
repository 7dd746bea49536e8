// Where: internal/version/version_test.go
// What: Tests for build-info derived version strings.
// Why: Keep CLI output and SDK app ids stable across build modes.
package version

import (
	"runtime/debug"
	"testing"
)

func stubBuildInfo(t *testing.T, info *debug.BuildInfo, ok bool) {
	t.Helper()
	orig := readBuildInfo
	t.Cleanup(func() { readBuildInfo = orig })
	readBuildInfo = func() (*debug.BuildInfo, bool) { return info, ok }
}

func TestGetVersionWithoutBuildInfo(t *testing.T) {
	stubBuildInfo(t, nil, false)
	if got := GetVersion(); got != "dev" {
		t.Fatalf("unexpected version: %s", got)
	}
	if got := AppID(); got != "versionsync/dev" {
		t.Fatalf("unexpected app id: %s", got)
	}
}

func TestGetVersionShortensRevision(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{Settings: []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.modified", Value: "true"},
	}}, true)
	if got := GetVersion(); got != "0123456 (dirty)" {
		t.Fatalf("unexpected version: %s", got)
	}
	if got := AppID(); got != "versionsync/0123456-dirty" {
		t.Fatalf("unexpected app id: %s", got)
	}
}
