package changelog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/revanced-tools/apk-resolver/pkg/githubapi"
)

var _ githubapi.ChangelogRecorder = (*Store)(nil)

func TestStore(t *testing.T) {
	store := NewStore()
	store.Record("revanced/revanced-patches", githubapi.Release{TagName: "v1", Body: "first"})
	store.Record("revanced/revanced-cli", githubapi.Release{TagName: "v4", Body: "cli"})
	store.Record("revanced/revanced-patches", githubapi.Release{TagName: "v2", Body: "second"})

	entry, ok := store.Get("revanced/revanced-patches")
	require.True(t, ok)
	require.Equal(t, "v2", entry.Tag)
	require.Equal(t, "second", entry.Body)

	entries := store.Entries()
	require.Len(t, entries, 2)
	require.Equal(t, "revanced/revanced-cli", entries[0].Source)
	require.Equal(t, "revanced/revanced-patches", entries[1].Source)

	_, ok = store.Get("unknown/repo")
	require.False(t, ok)
}
