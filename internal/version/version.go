// Where: internal/version/version.go
// What: Version information retrieval.
// Why: Provide build-time version information to the CLI and the AWS SDK app id.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/poruru-code/versionsync/internal/meta"
)

var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the version information derived from build info.
// It returns "dev" if build info is not available.
// Otherwise, it returns the VCS revision, optionally appended with "(dirty)"
// if the tree was modified.
func GetVersion() string {
	revision, modified := vcsRevision()
	if revision == "" {
		return "dev"
	}
	if modified {
		return fmt.Sprintf("%s (dirty)", revision)
	}
	return revision
}

// AppID returns the identifier attached to outgoing AWS SDK requests.
// The SDK only accepts a compact token, so the dirty marker becomes a suffix.
func AppID() string {
	revision, modified := vcsRevision()
	if revision == "" {
		revision = "dev"
	}
	if modified {
		revision += "-dirty"
	}
	return strings.Join([]string{meta.Slug, revision}, "/")
}

func vcsRevision() (string, bool) {
	info, ok := readBuildInfo()
	if !ok {
		return "", false
	}

	var revision string
	var modified bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
			// Shorten revision to 7 chars if possible
			if len(revision) > 7 {
				revision = revision[:7]
			}
		case "vcs.modified":
			if setting.Value == "true" {
				modified = true
			}
		}
	}
	return revision, modified
}
