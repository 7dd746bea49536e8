// Where: internal/domain/request/validate.go
// What: Payload validation into a typed configuration.
// Why: Resolution code only ever sees complete artifact groups.
package request

import (
	"sort"
	"strings"

	"github.com/poruru-code/versionsync/internal/domain/artifact"
)

// Identity is the optional cross-account role pair.
type Identity struct {
	AccountID string
	RoleName  string
}

// Ambient reports whether the invocation runs under its own identity.
func (i Identity) Ambient() bool {
	return i.AccountID == "" && i.RoleName == ""
}

// Config is a validated request.
type Config struct {
	GetVersions bool
	SetVersions bool
	SSMPrefix   string
	Identity    Identity
	// Sources holds at most one source per kind, in artifact.Kinds order.
	Sources []artifact.Source
}

// Noop reports whether the invocation has nothing to do. Supplied versions
// alone are echoed back, so they make the invocation non-trivial.
func (c Config) Noop() bool {
	if c.GetVersions || c.SetVersions {
		return false
	}
	for _, source := range c.Sources {
		if _, ok := source.(artifact.SuppliedSource); ok {
			return false
		}
	}
	return true
}

// Fetches returns the kinds that will be resolved from their stores.
func (c Config) Fetches() []artifact.Kind {
	var out []artifact.Kind
	for _, source := range c.Sources {
		if _, ok := source.(artifact.FetchSource); ok {
			out = append(out, source.Kind())
		}
	}
	return out
}

// Validate checks the payload against the request rules. policies supplies
// the per-kind conventions configured for this deployment.
func Validate(p Payload, policies artifact.Policies) (Config, error) {
	cfgErr := &ConfigError{}
	cfg := Config{
		GetVersions: p.GetVersions,
		SetVersions: p.SetVersions,
		SSMPrefix:   strings.TrimSpace(p.SSMPrefix),
	}
	if !cfg.GetVersions && !cfg.SetVersions && len(p.Versions) == 0 {
		return cfg, nil
	}

	if cfg.SetVersions && strings.Trim(cfg.SSMPrefix, "/") == "" {
		cfgErr.add("ssm_prefix", "required when set_versions is true")
	}

	cfg.Identity = validateIdentity(p, cfgErr)
	supplied := validateSupplied(p.Versions, cfgErr)

	for _, kind := range artifact.Kinds() {
		if versions, ok := supplied[kind]; ok {
			cfg.Sources = append(cfg.Sources, artifact.SuppliedSource{For: kind, Versions: versions})
			continue
		}
		group, ok := buildGroup(kind, p, policies.For(kind), cfgErr)
		if ok && cfg.GetVersions {
			cfg.Sources = append(cfg.Sources, artifact.FetchSource{Group: group})
		}
	}

	if err := cfgErr.orNil(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateIdentity(p Payload, cfgErr *ConfigError) Identity {
	identity := Identity{
		AccountID: strings.TrimSpace(p.AccountID),
		RoleName:  strings.TrimSpace(p.RoleToAssume),
	}
	switch {
	case identity.AccountID == "" && identity.RoleName != "":
		cfgErr.add("account_id", "required when role_to_assume is set")
	case identity.AccountID != "" && identity.RoleName == "":
		cfgErr.add("role_to_assume", "required when account_id is set")
	case identity.AccountID != "" && !isAccountID(identity.AccountID):
		cfgErr.add("account_id", "must be a 12-digit account id, got %q", identity.AccountID)
	}
	return identity
}

func isAccountID(value string) bool {
	if len(value) != 12 {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func validateSupplied(raw map[string]map[string]string, cfgErr *ConfigError) map[artifact.Kind]map[string]string {
	out := map[artifact.Kind]map[string]string{}
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		kind, err := artifact.ParseKind(key)
		if err != nil {
			cfgErr.add("versions."+key, "%v", err)
			continue
		}
		versions := map[string]string{}
		for app, token := range raw[key] {
			if strings.TrimSpace(app) == "" {
				cfgErr.add("versions."+key, "application name must not be empty")
				continue
			}
			if strings.TrimSpace(token) == "" {
				cfgErr.add("versions."+key+"."+app, "version must not be empty")
				continue
			}
			versions[app] = token
		}
		out[kind] = versions
	}
	return out
}

func buildGroup(kind artifact.Kind, p Payload, policy artifact.Policy, cfgErr *ConfigError) (artifact.Group, bool) {
	if kind == artifact.KindRegistry {
		if len(p.ECRRepositories) == 0 {
			return nil, false
		}
		group, err := artifact.NewRegistryGroup(p.ECRRepositories, artifact.NewTagFilterSet(p.ECRImageTagFilters...), policy)
		if err != nil {
			cfgErr.add("ecr_repositories", "%v", err)
			return nil, false
		}
		return group, true
	}

	fields := p.objectStore(kind.String())
	present := map[string]bool{
		kind.String() + "_names":     len(fields.names) > 0,
		kind.String() + "_s3_bucket": strings.TrimSpace(fields.bucket) != "",
		kind.String() + "_s3_prefix": strings.Trim(strings.TrimSpace(fields.prefix), "/") != "",
	}
	var set, missing []string
	for field, ok := range present {
		if ok {
			set = append(set, field)
		} else {
			missing = append(missing, field)
		}
	}
	if len(set) == 0 {
		return nil, false
	}
	if len(missing) > 0 {
		sort.Strings(set)
		sort.Strings(missing)
		cfgErr.add(kind.String(), "partial configuration: %s set but %s missing",
			strings.Join(set, ", "), strings.Join(missing, ", "))
		return nil, false
	}

	if fields.versionSource != "" {
		source, err := artifact.ParseVersionSource(fields.versionSource)
		if err != nil {
			cfgErr.add(kind.String()+"_version_source", "%v", err)
			return nil, false
		}
		policy.Source = source
	}

	group, err := artifact.NewObjectStoreGroup(
		kind,
		fields.bucket,
		fields.prefix,
		fields.names,
		artifact.NewTagFilterSet(fields.filters...),
		policy,
	)
	if err != nil {
		cfgErr.add(kind.String(), "%v", err)
		return nil, false
	}
	return group, true
}
