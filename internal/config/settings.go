// Where: internal/config/settings.go
// What: Engine settings load helpers.
// Why: Combine the optional YAML settings file with deployment environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/poruru-code/versionsync/internal/constants"
	"github.com/poruru-code/versionsync/internal/domain/artifact"
	"github.com/poruru-code/versionsync/internal/envutil"
	"github.com/poruru-code/versionsync/internal/meta"
	"gopkg.in/yaml.v3"
)

// Settings are fixed per deployment; requests cannot change them.
type Settings struct {
	// NamePrefix is the root namespace every parameter write must stay under.
	NamePrefix        string                  `yaml:"name_prefix,omitempty"`
	Region            string                  `yaml:"region,omitempty"`
	Concurrency       int                     `yaml:"concurrency,omitempty"`
	DeadlineMargin    time.Duration           `yaml:"deadline_margin,omitempty"`
	CrossAccountReads bool                    `yaml:"cross_account_reads,omitempty"`
	LogLevel          string                  `yaml:"log_level,omitempty"`
	LogFormat         string                  `yaml:"log_format,omitempty"`
	Retry             RetrySettings           `yaml:"retry,omitempty"`
	AssumeRole        AssumeRoleSettings      `yaml:"assume_role,omitempty"`
	Kinds             map[string]KindSettings `yaml:"kinds,omitempty"`
}

// RetrySettings bound the exponential backoff of store calls and writes.
type RetrySettings struct {
	MaxAttempts     int           `yaml:"max_attempts,omitempty"`
	InitialInterval time.Duration `yaml:"initial_interval,omitempty"`
	MaxInterval     time.Duration `yaml:"max_interval,omitempty"`
	MaxElapsed      time.Duration `yaml:"max_elapsed,omitempty"`
}

// AssumeRoleSettings bound the role exchange retries.
type AssumeRoleSettings struct {
	SessionName     string        `yaml:"session_name,omitempty"`
	Duration        time.Duration `yaml:"duration,omitempty"`
	MaxAttempts     int           `yaml:"max_attempts,omitempty"`
	InitialInterval time.Duration `yaml:"initial_interval,omitempty"`
	MaxInterval     time.Duration `yaml:"max_interval,omitempty"`
}

// KindSettings declare the naming convention of one artifact kind.
type KindSettings struct {
	CommitMarker  string   `yaml:"commit_marker,omitempty"`
	Token         string   `yaml:"token,omitempty"`
	TokenLength   int      `yaml:"token_length,omitempty"`
	VersionSource string   `yaml:"version_source,omitempty"`
	Extensions    []string `yaml:"extensions,omitempty"`
	MetadataKey   string   `yaml:"metadata_key,omitempty"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Concurrency:    8,
		DeadlineMargin: 2 * time.Second,
		LogLevel:       "info",
		LogFormat:      "json",
		Retry: RetrySettings{
			MaxAttempts:     5,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			MaxElapsed:      30 * time.Second,
		},
		AssumeRole: AssumeRoleSettings{
			SessionName:     meta.RoleSessionName,
			Duration:        15 * time.Minute,
			MaxAttempts:     6,
			InitialInterval: time.Second,
			MaxInterval:     5 * time.Second,
		},
		Kinds: map[string]KindSettings{
			string(artifact.KindRegistry): {
				CommitMarker: meta.DefaultCommitMarker,
				Token:        string(artifact.TokenHash),
			},
			string(artifact.KindFunction): {
				CommitMarker:  meta.DefaultCommitMarker,
				Token:         string(artifact.TokenHash),
				VersionSource: string(artifact.SourceObjectVersion),
				Extensions:    []string{".zip", ".jar"},
				MetadataKey:   meta.DefaultMetadataKey,
			},
			string(artifact.KindBundle): {
				CommitMarker:  meta.DefaultCommitMarker,
				Token:         string(artifact.TokenHash),
				VersionSource: string(artifact.SourceCommit),
				Extensions:    []string{".zip", ".tar.gz", ".tgz"},
				MetadataKey:   meta.DefaultMetadataKey,
			},
		},
	}
}

// Load reads the settings file named by VERSIONSYNC_CONFIG (if any) over the
// defaults, then applies environment overrides.
func Load() (Settings, error) {
	settings := DefaultSettings()
	if path, ok := envutil.First(constants.EnvConfigPath); ok {
		fromFile, err := LoadFile(path)
		if err != nil {
			return Settings{}, err
		}
		settings = settings.merge(fromFile)
	}
	if err := settings.applyEnv(); err != nil {
		return Settings{}, err
	}
	return settings, settings.Validate()
}

// LoadFile parses a YAML settings file without applying defaults.
func LoadFile(path string) (Settings, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}

	var cfg Settings
	if err := yaml.Unmarshal(payload, &cfg); err != nil {
		return Settings{}, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return cfg, nil
}

func (s Settings) merge(override Settings) Settings {
	if override.NamePrefix != "" {
		s.NamePrefix = override.NamePrefix
	}
	if override.Region != "" {
		s.Region = override.Region
	}
	if override.Concurrency > 0 {
		s.Concurrency = override.Concurrency
	}
	if override.DeadlineMargin > 0 {
		s.DeadlineMargin = override.DeadlineMargin
	}
	if override.CrossAccountReads {
		s.CrossAccountReads = true
	}
	if override.LogLevel != "" {
		s.LogLevel = override.LogLevel
	}
	if override.LogFormat != "" {
		s.LogFormat = override.LogFormat
	}
	s.Retry = mergeRetry(s.Retry, override.Retry)
	s.AssumeRole = mergeAssumeRole(s.AssumeRole, override.AssumeRole)
	kinds := make(map[string]KindSettings, len(s.Kinds))
	for name, kind := range s.Kinds {
		kinds[name] = kind
	}
	for name, kind := range override.Kinds {
		kinds[name] = mergeKind(kinds[name], kind)
	}
	s.Kinds = kinds
	return s
}

func mergeRetry(base, override RetrySettings) RetrySettings {
	if override.MaxAttempts > 0 {
		base.MaxAttempts = override.MaxAttempts
	}
	if override.InitialInterval > 0 {
		base.InitialInterval = override.InitialInterval
	}
	if override.MaxInterval > 0 {
		base.MaxInterval = override.MaxInterval
	}
	if override.MaxElapsed > 0 {
		base.MaxElapsed = override.MaxElapsed
	}
	return base
}

func mergeAssumeRole(base, override AssumeRoleSettings) AssumeRoleSettings {
	if override.SessionName != "" {
		base.SessionName = override.SessionName
	}
	if override.Duration > 0 {
		base.Duration = override.Duration
	}
	if override.MaxAttempts > 0 {
		base.MaxAttempts = override.MaxAttempts
	}
	if override.InitialInterval > 0 {
		base.InitialInterval = override.InitialInterval
	}
	if override.MaxInterval > 0 {
		base.MaxInterval = override.MaxInterval
	}
	return base
}

func mergeKind(base, override KindSettings) KindSettings {
	if override.CommitMarker != "" {
		base.CommitMarker = override.CommitMarker
	}
	if override.Token != "" {
		base.Token = override.Token
	}
	if override.TokenLength > 0 {
		base.TokenLength = override.TokenLength
	}
	if override.VersionSource != "" {
		base.VersionSource = override.VersionSource
	}
	if len(override.Extensions) > 0 {
		base.Extensions = override.Extensions
	}
	if override.MetadataKey != "" {
		base.MetadataKey = override.MetadataKey
	}
	return base
}

func (s *Settings) applyEnv() error {
	// NAME_PREFIX wins; SSM_PREFIX is the variable older deployments set and
	// always names an absolute hierarchy.
	if value, ok := envutil.First(constants.EnvNamePrefix); ok {
		s.NamePrefix = value
	} else if value, ok := envutil.First(constants.EnvSSMPrefix); ok {
		s.NamePrefix = legacyRoot(value)
	}
	if value, ok := envutil.First(constants.EnvAWSRegion, constants.EnvAWSDefaultRegion); ok {
		s.Region = value
	}
	if value, ok, err := envutil.Int(constants.EnvConcurrency); err != nil {
		return err
	} else if ok {
		s.Concurrency = value
	}
	if value, ok, err := envutil.Duration(constants.EnvDeadlineMargin); err != nil {
		return err
	} else if ok {
		s.DeadlineMargin = value
	}
	if value, ok, err := envutil.Bool(constants.EnvCrossAccountReads); err != nil {
		return err
	} else if ok {
		s.CrossAccountReads = value
	}
	if value, ok := envutil.First(constants.EnvLogLevel); ok {
		s.LogLevel = value
	}
	if value, ok := envutil.First(constants.EnvLogFormat); ok {
		s.LogFormat = value
	}
	return nil
}

// legacyRoot turns an SSM_PREFIX value into a root with a leading slash,
// "trafficinfo" -> "/trafficinfo".
func legacyRoot(value string) string {
	return "/" + strings.TrimLeft(value, "/")
}

// Validate checks value ranges and the kind conventions.
func (s Settings) Validate() error {
	if s.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", s.Concurrency)
	}
	if s.DeadlineMargin < 0 {
		return fmt.Errorf("deadline margin must not be negative, got %s", s.DeadlineMargin)
	}
	if s.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("retry.max_attempts must be positive, got %d", s.Retry.MaxAttempts)
	}
	for name := range s.Kinds {
		if _, err := artifact.ParseKind(name); err != nil {
			return fmt.Errorf("kinds: %w", err)
		}
	}
	_, err := s.Policies()
	return err
}

// Policies converts the kind settings into domain policies.
func (s Settings) Policies() (artifact.Policies, error) {
	out := artifact.Policies{}
	for _, kind := range artifact.Kinds() {
		ks := s.Kinds[string(kind)]
		policy := artifact.Policy{
			Commit:      artifact.CommitPattern{Marker: ks.CommitMarker},
			Token:       artifact.TokenPolicy{Format: artifact.TokenFormat(ks.Token), Length: ks.TokenLength},
			Extensions:  ks.Extensions,
			MetadataKey: ks.MetadataKey,
		}
		if policy.Commit.Marker == "" {
			policy.Commit.Marker = meta.DefaultCommitMarker
		}
		if err := policy.Token.Validate(); err != nil {
			return nil, fmt.Errorf("kinds.%s: %w", kind, err)
		}
		if kind.IsObjectStore() {
			source, err := artifact.ParseVersionSource(ks.VersionSource)
			if err != nil {
				return nil, fmt.Errorf("kinds.%s: %w", kind, err)
			}
			policy.Source = source
			if len(policy.Extensions) == 0 {
				return nil, fmt.Errorf("kinds.%s: at least one extension is required", kind)
			}
			if policy.MetadataKey == "" {
				policy.MetadataKey = meta.DefaultMetadataKey
			}
		}
		out[kind] = policy
	}
	return out, nil
}
