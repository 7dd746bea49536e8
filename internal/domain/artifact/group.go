// Where: internal/domain/artifact/group.go
// What: Artifact group configurations and the fetch-or-supplied source choice.
// Why: Groups can only be built complete, and every kind gets exactly one source.
package artifact

import (
	"errors"
	"sort"
	"strings"
)

// DiscoverAll as the only application name asks an object-store resolver
// to discover every first-level name under the prefix.
const DiscoverAll = "*"

var (
	errRepositoriesRequired = errors.New("at least one repository is required")
	errBucketRequired       = errors.New("bucket is required")
	errPrefixRequired       = errors.New("prefix is required")
	errNamesRequired        = errors.New("at least one application name is required")
	errNotObjectStoreKind   = errors.New("kind is not an object-store kind")
	errDiscoverMixed        = errors.New(`"*" cannot be combined with explicit application names`)
)

// Policy is the per-kind resolution convention declared by configuration.
type Policy struct {
	Commit      CommitPattern
	Token       TokenPolicy
	Source      VersionSource
	Extensions  []string
	MetadataKey string
}

// Policies maps every kind to its policy.
type Policies map[Kind]Policy

// For returns the policy of kind, or the zero policy.
func (p Policies) For(kind Kind) Policy {
	if p == nil {
		return Policy{}
	}
	return p[kind]
}

// Group is a fully specified artifact group that a resolver can fetch.
type Group interface {
	Kind() Kind
	Filters() TagFilterSet
	Policy() Policy
}

// RegistryGroup lists container repositories, one application each.
type RegistryGroup struct {
	repositories []string
	filters      TagFilterSet
	policy       Policy
}

// NewRegistryGroup builds a registry group from at least one repository.
func NewRegistryGroup(repositories []string, filters TagFilterSet, policy Policy) (RegistryGroup, error) {
	names := normalizeNames(repositories)
	if len(names) == 0 {
		return RegistryGroup{}, errRepositoriesRequired
	}
	return RegistryGroup{repositories: names, filters: filters, policy: policy}, nil
}

func (RegistryGroup) Kind() Kind               { return KindRegistry }
func (g RegistryGroup) Filters() TagFilterSet  { return g.filters }
func (g RegistryGroup) Policy() Policy         { return g.policy }
func (g RegistryGroup) Repositories() []string { return append([]string(nil), g.repositories...) }

// ObjectStoreGroup locates packaged artifacts under bucket/prefix/<application>/.
type ObjectStoreGroup struct {
	kind         Kind
	bucket       string
	prefix       string
	applications []string
	filters      TagFilterSet
	policy       Policy
}

// NewObjectStoreGroup requires bucket, prefix and names together.
func NewObjectStoreGroup(
	kind Kind,
	bucket string,
	prefix string,
	names []string,
	filters TagFilterSet,
	policy Policy,
) (ObjectStoreGroup, error) {
	if !kind.IsObjectStore() {
		return ObjectStoreGroup{}, errNotObjectStoreKind
	}
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return ObjectStoreGroup{}, errBucketRequired
	}
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ObjectStoreGroup{}, errPrefixRequired
	}
	apps := normalizeNames(names)
	if len(apps) == 0 {
		return ObjectStoreGroup{}, errNamesRequired
	}
	for _, app := range apps {
		if app == DiscoverAll && len(apps) > 1 {
			return ObjectStoreGroup{}, errDiscoverMixed
		}
	}
	if apps[0] == DiscoverAll {
		apps = nil
	}
	return ObjectStoreGroup{
		kind:         kind,
		bucket:       bucket,
		prefix:       prefix,
		applications: apps,
		filters:      filters,
		policy:       policy,
	}, nil
}

func (g ObjectStoreGroup) Kind() Kind              { return g.kind }
func (g ObjectStoreGroup) Filters() TagFilterSet   { return g.filters }
func (g ObjectStoreGroup) Policy() Policy          { return g.policy }
func (g ObjectStoreGroup) Bucket() string          { return g.bucket }
func (g ObjectStoreGroup) Prefix() string          { return g.prefix }
func (g ObjectStoreGroup) Discover() bool          { return len(g.applications) == 0 }
func (g ObjectStoreGroup) Applications() []string { return append([]string(nil), g.applications...) }

// ApplicationPrefix is the listing prefix for one application.
func (g ObjectStoreGroup) ApplicationPrefix(application string) string {
	return g.prefix + "/" + application + "/"
}

// Source decides where the versions of one kind come from.
type Source interface {
	Kind() Kind
	isSource()
}

// FetchSource resolves the kind from its artifact store.
type FetchSource struct {
	Group Group
}

func (s FetchSource) Kind() Kind { return s.Group.Kind() }
func (FetchSource) isSource()    {}

// SuppliedSource uses caller-provided versions verbatim.
type SuppliedSource struct {
	For      Kind
	Versions map[string]string
}

func (s SuppliedSource) Kind() Kind { return s.For }
func (SuppliedSource) isSource()    {}

func normalizeNames(values []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}
