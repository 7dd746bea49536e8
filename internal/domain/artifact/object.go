// Where: internal/domain/artifact/object.go
// What: Qualification, ranking and selection of object-store packages.
// Why: Pick the newest package whose tag metadata carries a commit entry and every filter tag.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrMissingMetadata      = errors.New("tag metadata missing")
	ErrMalformedMetadata    = errors.New("tag metadata malformed")
	ErrMissingObjectVersion = errors.New("object has no version id")
)

// Object is one stored package. Metadata stays nil until the object head is read.
type Object struct {
	Key          string
	LastModified time.Time
	VersionID    string
	Metadata     map[string]string
}

// ObjectMatch is a qualifying object with its commit entry.
type ObjectMatch struct {
	Object    Object
	CommitTag string
	Hash      string
}

// HasExtension reports whether key ends with one of the accepted extensions.
func HasExtension(key string, extensions []string) bool {
	lower := strings.ToLower(key)
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// ParseTagMetadata decodes the JSON array of strings stored in a metadata field.
func ParseTagMetadata(metadata map[string]string, key string) ([]string, error) {
	raw, ok := lookupMetadata(metadata, key)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, ErrMissingMetadata
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMetadata, err)
	}
	return tags, nil
}

// Object stores report user metadata keys in lower case.
func lookupMetadata(metadata map[string]string, key string) (string, bool) {
	if value, ok := metadata[key]; ok {
		return value, true
	}
	for k, value := range metadata {
		if strings.EqualFold(k, key) {
			return value, true
		}
	}
	return "", false
}

// QualifyObject checks one object with its metadata against the policy and filters.
func QualifyObject(object Object, filters TagFilterSet, policy Policy) (ObjectMatch, error) {
	tags, err := ParseTagMetadata(object.Metadata, policy.MetadataKey)
	if err != nil {
		return ObjectMatch{}, err
	}
	commitTags := policy.Commit.CommitTags(tags)
	switch len(commitTags) {
	case 0:
		return ObjectMatch{}, ErrNoCommitTag
	case 1:
	default:
		return ObjectMatch{}, fmt.Errorf("%w: %v", ErrAmbiguousCommitTag, commitTags)
	}
	if !filters.MatchedBy(tags) {
		return ObjectMatch{}, ErrFilterMismatch
	}
	hash, _ := policy.Commit.Match(commitTags[0])
	return ObjectMatch{Object: object, CommitTag: commitTags[0], Hash: hash}, nil
}

// RankObjects returns packages ordered newest first: last-modified descending,
// then key descending. The first qualifying entry of the ranking is the selection.
func RankObjects(objects []Object, extensions []string) []Object {
	out := make([]Object, 0, len(objects))
	for _, object := range objects {
		if HasExtension(object.Key, extensions) {
			out = append(out, object)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].LastModified.Equal(out[j].LastModified) {
			return out[i].LastModified.After(out[j].LastModified)
		}
		return out[i].Key > out[j].Key
	})
	return out
}

// SelectObject returns the newest qualifying object.
func SelectObject(objects []Object, filters TagFilterSet, policy Policy) (ObjectMatch, error) {
	ranked := RankObjects(objects, policy.Extensions)
	for _, object := range ranked {
		if match, err := QualifyObject(object, filters, policy); err == nil {
			return match, nil
		}
	}
	return ObjectMatch{}, NoQualifyingObject(len(objects), len(ranked), filters)
}

// NoQualifyingObject describes an empty selection.
func NoQualifyingObject(listed, packages int, filters TagFilterSet) error {
	if listed == 0 {
		return fmt.Errorf("%w: no objects found", ErrNoQualifying)
	}
	return fmt.Errorf(
		"%w: none of %d packages (%d objects) carries a commit tag and all tags %s",
		ErrNoQualifying, packages, listed, filters,
	)
}

// Token returns the version token of a selected object under policy.
func (m ObjectMatch) Token(policy Policy) (string, error) {
	if policy.Source == SourceObjectVersion {
		if strings.TrimSpace(m.Object.VersionID) == "" || m.Object.VersionID == "null" {
			return "", ErrMissingObjectVersion
		}
		return m.Object.VersionID, nil
	}
	return policy.Token.Token(m.CommitTag, m.Hash), nil
}
