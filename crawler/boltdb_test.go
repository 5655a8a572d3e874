package crawler

import (
	"net/url"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStorage(t *testing.T) {
	store := &SessionStorage{DBPath: filepath.Join(t.TempDir(), "nested", "session.db")}
	require.NoError(t, store.Init())
	defer store.Close()

	visited, err := store.IsVisited(42)
	require.NoError(t, err)
	assert.False(t, visited)

	require.NoError(t, store.Visited(42))
	visited, err = store.IsVisited(42)
	require.NoError(t, err)
	assert.True(t, visited)

	u, _ := url.Parse("https://www.giallozafferano.it/ricette-cat/")
	assert.Empty(t, store.Cookies(u))
	store.SetCookies(u, "session=abc")
	assert.Equal(t, "session=abc", store.Cookies(u))
}

func TestSessionStorageSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	store := &SessionStorage{DBPath: path}
	require.NoError(t, store.Init())
	u, _ := url.Parse("https://www.giallozafferano.it/")
	store.SetCookies(u, "session=xyz")
	require.NoError(t, store.Close())

	reopened := &SessionStorage{DBPath: path}
	require.NoError(t, reopened.Init())
	defer reopened.Close()
	assert.Equal(t, "session=xyz", reopened.Cookies(u))
}
