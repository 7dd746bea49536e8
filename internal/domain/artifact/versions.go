// Where: internal/domain/artifact/versions.go
// What: Resolved versions, the version map and the merge of sources.
// Why: Combine resolver output and caller overrides into one map per invocation.
package artifact

import (
	"sort"
	"time"
)

// ResolvedVersion is produced by a resolver and never modified afterwards.
type ResolvedVersion struct {
	Kind            Kind
	Application     string
	Token           string
	SourceTimestamp time.Time
	// Origin names the artifact the token was read from (image digest or object key).
	Origin string
}

// VersionMap maps kind -> application -> version token.
type VersionMap map[Kind]map[string]string

// Set records one token, creating the kind entry on demand.
func (m VersionMap) Set(kind Kind, application, token string) {
	apps, ok := m[kind]
	if !ok {
		apps = map[string]string{}
		m[kind] = apps
	}
	apps[application] = token
}

// Len counts entries across all kinds.
func (m VersionMap) Len() int {
	total := 0
	for _, apps := range m {
		total += len(apps)
	}
	return total
}

// Entry is one flattened (kind, application, token) triple.
type Entry struct {
	Kind        Kind
	Application string
	Token       string
}

// Entries flattens the map in kind then application order.
func (m VersionMap) Entries() []Entry {
	out := make([]Entry, 0, m.Len())
	for kind, apps := range m {
		for app, token := range apps {
			out = append(out, Entry{Kind: kind, Application: app, Token: token})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Application < out[j].Application
	})
	return out
}

// Merge builds the version map used for the response and the writes.
// Supplied sources are copied verbatim. Fetch sources take the resolved
// versions of their kind, which never include failed applications.
// Kinds without any entry are left out.
func Merge(sources []Source, resolved map[Kind][]ResolvedVersion) VersionMap {
	out := VersionMap{}
	for _, source := range sources {
		switch s := source.(type) {
		case SuppliedSource:
			for app, token := range s.Versions {
				out.Set(s.For, app, token)
			}
		case FetchSource:
			kind := s.Kind()
			for _, version := range resolved[kind] {
				if version.Kind != kind {
					continue
				}
				out.Set(kind, version.Application, version.Token)
			}
		}
	}
	return out
}
