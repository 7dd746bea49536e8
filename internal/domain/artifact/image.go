// Where: internal/domain/artifact/image.go
// What: Qualification and selection of registry images.
// Why: Pick the newest image that carries a commit tag and every filter tag.
package artifact

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNoCommitTag        = errors.New("no commit tag")
	ErrAmbiguousCommitTag = errors.New("multiple commit tags")
	ErrFilterMismatch     = errors.New("tag filters not satisfied")
	ErrNoQualifying       = errors.New("no qualifying artifact")
)

// Image is one registry image as listed by the registry.
type Image struct {
	Digest   string
	Tags     []string
	PushedAt time.Time
}

// ImageMatch is a qualifying image together with its commit tag.
type ImageMatch struct {
	Image     Image
	CommitTag string
	Hash      string
}

// QualifyImage checks one image against the filters and the commit pattern.
func QualifyImage(image Image, filters TagFilterSet, pattern CommitPattern) (ImageMatch, error) {
	commitTags := pattern.CommitTags(image.Tags)
	switch len(commitTags) {
	case 0:
		return ImageMatch{}, ErrNoCommitTag
	case 1:
	default:
		return ImageMatch{}, fmt.Errorf("%w: %v", ErrAmbiguousCommitTag, commitTags)
	}
	if !filters.MatchedBy(image.Tags) {
		return ImageMatch{}, ErrFilterMismatch
	}
	hash, _ := pattern.Match(commitTags[0])
	return ImageMatch{Image: image, CommitTag: commitTags[0], Hash: hash}, nil
}

// SelectImage returns the qualifying image with the latest push time.
// Equal push times fall back to the greatest commit tag, then digest, so the
// result does not depend on listing order.
func SelectImage(images []Image, filters TagFilterSet, pattern CommitPattern) (ImageMatch, error) {
	var (
		best  ImageMatch
		found bool
	)
	for _, image := range images {
		match, err := QualifyImage(image, filters, pattern)
		if err != nil {
			continue
		}
		if !found || newerImage(match, best) {
			best = match
			found = true
		}
	}
	if !found {
		return ImageMatch{}, fmt.Errorf(
			"%w: none of %d images has exactly one commit tag and all tags %s",
			ErrNoQualifying, len(images), filters,
		)
	}
	return best, nil
}

func newerImage(a, b ImageMatch) bool {
	if !a.Image.PushedAt.Equal(b.Image.PushedAt) {
		return a.Image.PushedAt.After(b.Image.PushedAt)
	}
	if a.CommitTag != b.CommitTag {
		return a.CommitTag > b.CommitTag
	}
	return a.Image.Digest > b.Image.Digest
}
