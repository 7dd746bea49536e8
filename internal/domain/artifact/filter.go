// Where: internal/domain/artifact/filter.go
// What: Conjunctive tag filter sets.
// Why: An artifact qualifies only when it carries every required tag.
package artifact

import (
	"sort"
	"strings"
)

// TagFilterSet is a set of tags an artifact must all carry.
type TagFilterSet struct {
	tags []string
}

// NewTagFilterSet normalises filters: blanks are dropped, duplicates removed.
func NewTagFilterSet(tags ...string) TagFilterSet {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	sort.Strings(out)
	return TagFilterSet{tags: out}
}

// Tags returns the required tags in sorted order.
func (f TagFilterSet) Tags() []string {
	return append([]string(nil), f.tags...)
}

// Empty reports whether the set places no constraint.
func (f TagFilterSet) Empty() bool {
	return len(f.tags) == 0
}

// MatchedBy reports whether tags is a superset of the filter set.
func (f TagFilterSet) MatchedBy(tags []string) bool {
	if len(f.tags) == 0 {
		return true
	}
	have := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		have[tag] = struct{}{}
	}
	for _, required := range f.tags {
		if _, ok := have[required]; !ok {
			return false
		}
	}
	return true
}

func (f TagFilterSet) String() string {
	return "[" + strings.Join(f.tags, ", ") + "]"
}
