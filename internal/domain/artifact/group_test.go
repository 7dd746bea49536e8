package artifact

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRegistryGroupNormalisesRepositories(t *testing.T) {
	group, err := NewRegistryGroup([]string{"app-b", " app-a ", "app-b", ""}, NewTagFilterSet(), Policy{})
	require.NoError(t, err)
	require.Equal(t, KindRegistry, group.Kind())
	require.Equal(t, []string{"app-a", "app-b"}, group.Repositories())

	_, err = NewRegistryGroup([]string{" "}, NewTagFilterSet(), Policy{})
	require.ErrorIs(t, err, errRepositoriesRequired)
}

func TestNewObjectStoreGroupDiscovery(t *testing.T) {
	group, err := NewObjectStoreGroup(KindFunction, "artifacts", "/lambda/", []string{DiscoverAll}, NewTagFilterSet(), Policy{})
	require.NoError(t, err)
	require.True(t, group.Discover())
	require.Empty(t, group.Applications())
	require.Equal(t, "lambda", group.Prefix())
	require.Equal(t, "lambda/api/", group.ApplicationPrefix("api"))

	_, err = NewObjectStoreGroup(KindFunction, "artifacts", "lambda", []string{DiscoverAll, "api"}, NewTagFilterSet(), Policy{})
	require.ErrorIs(t, err, errDiscoverMixed)
}

func TestNewObjectStoreGroupRejectsRegistryKind(t *testing.T) {
	_, err := NewObjectStoreGroup(KindRegistry, "artifacts", "lambda", []string{"api"}, NewTagFilterSet(), Policy{})
	require.ErrorIs(t, err, errNotObjectStoreKind)
}

func TestSourcesReportTheirKind(t *testing.T) {
	group, err := NewObjectStoreGroup(KindBundle, "web", "frontend", []string{"site"}, NewTagFilterSet(), Policy{})
	require.NoError(t, err)

	require.Equal(t, KindBundle, FetchSource{Group: group}.Kind())
	require.Equal(t, KindRegistry, SuppliedSource{For: KindRegistry}.Kind())
}
