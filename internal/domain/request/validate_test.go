// Where: internal/domain/request/validate_test.go
// What: Tests for request decoding and validation.
// Why: Invalid combinations must fail before any client is built.
package request

import (
	"errors"
	"testing"

	"github.com/poruru-code/versionsync/internal/domain/artifact"
	"github.com/stretchr/testify/require"
)

var testPolicies = artifact.Policies{
	artifact.KindRegistry: {Commit: artifact.CommitPattern{Marker: "SHA1"}},
	artifact.KindFunction: {Commit: artifact.CommitPattern{Marker: "SHA1"}, Source: artifact.SourceObjectVersion},
	artifact.KindBundle:   {Commit: artifact.CommitPattern{Marker: "SHA1"}, Source: artifact.SourceCommit},
}

func requireProblem(t *testing.T, err error, field string) {
	t.Helper()
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr), "expected ConfigError, got %v", err)
	for _, p := range cfgErr.Problems {
		if p.Field == field {
			return
		}
	}
	t.Fatalf("no problem for field %q in %v", field, cfgErr.Problems)
}

func TestValidateNoopWhenNothingRequested(t *testing.T) {
	cfg, err := Validate(Payload{ECRRepositories: []string{"app-a"}}, testPolicies)
	require.NoError(t, err)
	require.True(t, cfg.Noop())
	require.Empty(t, cfg.Sources)
}

func TestValidateSuppliedOnlyIsNotNoop(t *testing.T) {
	cfg, err := Validate(Payload{Versions: map[string]map[string]string{"ecr": {"app-a": "deadbee"}}}, testPolicies)
	require.NoError(t, err)
	require.False(t, cfg.Noop())
	require.Empty(t, cfg.Fetches())
	require.Equal(t, []artifact.Source{
		artifact.SuppliedSource{For: artifact.KindRegistry, Versions: map[string]string{"app-a": "deadbee"}},
	}, cfg.Sources)
}

func TestValidateRejectsEmptySuppliedVersion(t *testing.T) {
	_, err := Validate(Payload{GetVersions: true, Versions: map[string]map[string]string{"lambda": {"fn": " "}}}, testPolicies)
	requireProblem(t, err, "versions.lambda.fn")
}

func TestValidateSetRequiresPrefix(t *testing.T) {
	_, err := Validate(Payload{SetVersions: true, SSMPrefix: " / "}, testPolicies)
	requireProblem(t, err, "ssm_prefix")
}

func TestValidateRejectsPartialObjectStore(t *testing.T) {
	_, err := Validate(Payload{
		GetVersions:    true,
		LambdaNames:    []string{"fn"},
		LambdaS3Bucket: "artifacts",
	}, testPolicies)
	requireProblem(t, err, "lambda")
	require.Contains(t, err.Error(), "lambda_s3_prefix missing")
}

func TestValidateIdentityIsBoundPair(t *testing.T) {
	_, err := Validate(Payload{GetVersions: true, AccountID: "123456789012"}, testPolicies)
	requireProblem(t, err, "role_to_assume")

	_, err = Validate(Payload{GetVersions: true, RoleToAssume: "deployer"}, testPolicies)
	requireProblem(t, err, "account_id")

	_, err = Validate(Payload{GetVersions: true, AccountID: "12345", RoleToAssume: "deployer"}, testPolicies)
	requireProblem(t, err, "account_id")

	cfg, err := Validate(Payload{GetVersions: true, AccountID: "123456789012", RoleToAssume: "deployer"}, testPolicies)
	require.NoError(t, err)
	require.False(t, cfg.Identity.Ambient())
}

func TestValidateSuppliedVersionsOverrideFetch(t *testing.T) {
	cfg, err := Validate(Payload{
		GetVersions:     true,
		ECRRepositories: []string{"app-a"},
		LambdaNames:     []string{"fn"},
		LambdaS3Bucket:  "artifacts",
		LambdaS3Prefix:  "lambdas",
		Versions:        map[string]map[string]string{"ecr": {"app-a": "deadbee"}},
	}, testPolicies)
	require.NoError(t, err)
	require.Len(t, cfg.Sources, 2)
	require.Equal(t, artifact.SuppliedSource{For: artifact.KindRegistry, Versions: map[string]string{"app-a": "deadbee"}}, cfg.Sources[0])
	require.Equal(t, []artifact.Kind{artifact.KindFunction}, cfg.Fetches())
}

func TestValidateRejectsUnknownKind(t *testing.T) {
	_, err := Validate(Payload{GetVersions: true, Versions: map[string]map[string]string{"helm": {"a": "b"}}}, testPolicies)
	requireProblem(t, err, "versions.helm")
}

func TestValidateVersionSourceOverride(t *testing.T) {
	cfg, err := Validate(Payload{
		GetVersions:           true,
		FrontendNames:         []string{"*"},
		FrontendS3Bucket:      "artifacts",
		FrontendS3Prefix:      "frontends",
		FrontendVersionSource: "object-version",
	}, testPolicies)
	require.NoError(t, err)
	fetch := cfg.Sources[0].(artifact.FetchSource)
	group := fetch.Group.(artifact.ObjectStoreGroup)
	require.True(t, group.Discover())
	require.Equal(t, artifact.SourceObjectVersion, group.Policy().Source)
}

func TestDecodeAcceptsYAMLAndJSON(t *testing.T) {
	fromJSON, err := Decode([]byte(`{"get_versions": true, "ecr_repositories": ["app-a"], "ecr_image_tag_filters": ["master-branch"]}`))
	require.NoError(t, err)
	fromYAML, err := Decode([]byte("get_versions: true\necr_repositories: [app-a]\necr_image_tag_filters:\n  - master-branch\n"))
	require.NoError(t, err)
	require.Equal(t, fromJSON, fromYAML)
	require.Equal(t, []string{"app-a"}, fromJSON.ECRRepositories)
}

func TestDecodeRejectsWrongShape(t *testing.T) {
	_, err := Decode([]byte(`{"get_versions": "yes", "versions": {"ecr": {"app-a": 1}}}`))
	requireProblem(t, err, "get_versions")
	requireProblem(t, err, "versions.ecr.app-a")
}

func TestDecodeEmptyInput(t *testing.T) {
	payload, err := Decode([]byte("  \n"))
	require.NoError(t, err)
	require.Equal(t, Payload{}, payload)
}
