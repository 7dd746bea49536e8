// Where: internal/domain/artifact/commit.go
// What: Commit identifier matching and token extraction policies.
// Why: Declare per kind how a commit tag becomes a version token.
package artifact

import (
	"fmt"
	"strings"
)

const (
	minCommitHashLength = 7
	maxCommitHashLength = 40
	defaultShortLength  = 7
)

// CommitPattern recognises tags of the form "<hex hash>-<marker>".
type CommitPattern struct {
	Marker string
}

// Match returns the hash part of tag when tag is a well-formed commit tag.
func (p CommitPattern) Match(tag string) (string, bool) {
	marker := strings.TrimSpace(p.Marker)
	if marker == "" {
		return "", false
	}
	hash, ok := strings.CutSuffix(tag, "-"+marker)
	if !ok {
		return "", false
	}
	if len(hash) < minCommitHashLength || len(hash) > maxCommitHashLength {
		return "", false
	}
	for _, r := range hash {
		if !isHex(r) {
			return "", false
		}
	}
	return hash, true
}

// CommitTags returns every well-formed commit tag found in tags.
func (p CommitPattern) CommitTags(tags []string) []string {
	var out []string
	for _, tag := range tags {
		if _, ok := p.Match(tag); ok {
			out = append(out, tag)
		}
	}
	return out
}

func isHex(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// TokenFormat selects which part of a commit tag is published.
type TokenFormat string

const (
	// TokenHash publishes the hash part, "abc1234-SHA1" -> "abc1234".
	TokenHash TokenFormat = "hash"
	// TokenShort publishes the first Length characters of the hash.
	TokenShort TokenFormat = "short"
	// TokenTag publishes the tag unchanged.
	TokenTag TokenFormat = "tag"
)

// TokenPolicy turns a matched commit tag into a version token.
type TokenPolicy struct {
	Format TokenFormat
	Length int
}

// Validate rejects unknown formats and non-positive short lengths.
func (p TokenPolicy) Validate() error {
	switch p.Format {
	case TokenHash, TokenTag, "":
		return nil
	case TokenShort:
		if p.Length < 0 {
			return fmt.Errorf("token length must be positive, got %d", p.Length)
		}
		return nil
	default:
		return fmt.Errorf("unsupported token format %q", p.Format)
	}
}

// Token extracts the published token from a commit tag and its hash part.
func (p TokenPolicy) Token(tag, hash string) string {
	switch p.Format {
	case TokenTag:
		return tag
	case TokenShort:
		length := p.Length
		if length <= 0 {
			length = defaultShortLength
		}
		if len(hash) > length {
			return hash[:length]
		}
		return hash
	default:
		return hash
	}
}

// VersionSource selects where an object-store kind takes its token from.
type VersionSource string

const (
	// SourceCommit uses the commit entry of the object's tag metadata.
	SourceCommit VersionSource = "commit"
	// SourceObjectVersion uses the store-assigned object version id.
	SourceObjectVersion VersionSource = "object-version"
)

// ParseVersionSource validates a configured version source.
func ParseVersionSource(value string) (VersionSource, error) {
	switch VersionSource(strings.TrimSpace(value)) {
	case SourceCommit:
		return SourceCommit, nil
	case SourceObjectVersion:
		return SourceObjectVersion, nil
	default:
		return "", fmt.Errorf("unsupported version source %q", value)
	}
}
