// Where: internal/meta/meta.go
// What: CLI-local metadata constants.
// Why: Keep identity strings in one place for logs, session names and the SDK app id.
package meta

const (
	// Project Identity
	AppName = "versionsync"
	Slug    = "versionsync"

	// Role assumption
	RoleSessionName = "pipeline-set-version"

	// Object-store metadata field holding the JSON tag array (x-amz-meta-tags)
	DefaultMetadataKey = "tags"

	// Commit tag suffix, as in "abc1234-SHA1"
	DefaultCommitMarker = "SHA1"
)
