package artifact

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTagFilterSetNormalises(t *testing.T) {
	filters := NewTagFilterSet(" master-branch ", "", "release", "master-branch")

	require.Equal(t, []string{"master-branch", "release"}, filters.Tags())
	require.False(t, filters.Empty())
	require.Equal(t, "[master-branch, release]", filters.String())
}

func TestTagFilterSetMatchedBy(t *testing.T) {
	filters := NewTagFilterSet("master-branch", "release")

	tests := []struct {
		name string
		tags []string
		want bool
	}{
		{name: "superset", tags: []string{"abc1234-SHA1", "release", "master-branch"}, want: true},
		{name: "exact", tags: []string{"master-branch", "release"}, want: true},
		{name: "missing one", tags: []string{"master-branch"}, want: false},
		{name: "none", tags: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, filters.MatchedBy(tt.tags))
		})
	}
	require.True(t, NewTagFilterSet().MatchedBy(nil))
}

func TestParseKind(t *testing.T) {
	for _, kind := range Kinds() {
		parsed, err := ParseKind(" " + kind.String() + " ")
		require.NoError(t, err)
		require.Equal(t, kind, parsed)
	}
	_, err := ParseKind("helm")
	require.Error(t, err)

	require.False(t, KindRegistry.IsObjectStore())
	require.True(t, KindFunction.IsObjectStore())
	require.True(t, KindBundle.IsObjectStore())
}

func TestParseVersionSource(t *testing.T) {
	source, err := ParseVersionSource("object-version")
	require.NoError(t, err)
	require.Equal(t, SourceObjectVersion, source)

	_, err = ParseVersionSource("etag")
	require.Error(t, err)
}

func TestTokenPolicyValidate(t *testing.T) {
	require.NoError(t, TokenPolicy{}.Validate())
	require.NoError(t, TokenPolicy{Format: TokenShort, Length: 10}.Validate())
	require.Error(t, TokenPolicy{Format: TokenShort, Length: -1}.Validate())
	require.Error(t, TokenPolicy{Format: "digest"}.Validate())
}
