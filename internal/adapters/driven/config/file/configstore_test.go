package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*ConfigStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	return store, dir
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Set("llm.provider", "anthropic"))
	require.NoError(t, store.Set("search.top_k", int64(7)))
	require.NoError(t, store.Set("verbose", true))

	assert.Equal(t, "anthropic", store.GetString("llm.provider"))
	assert.Equal(t, 7, store.GetInt("search.top_k"))
	assert.True(t, store.GetBool("verbose"))

	_, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("missing"))
	assert.Zero(t, store.GetInt("missing"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_TypeMismatchReturnsZeroValue(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Set("key", "not a number"))
	assert.Zero(t, store.GetInt("key"))
	assert.False(t, store.GetBool("key"))

	require.NoError(t, store.Set("num", int64(3)))
	assert.Empty(t, store.GetString("num"))
}

func TestConfigStore_PersistsAcrossReopen(t *testing.T) {
	store, dir := newTestStore(t)

	require.NoError(t, store.Set("llm.model", "claude-sonnet-4-20250514"))
	require.NoError(t, store.Set("search.top_k", int64(5)))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "claude-sonnet-4-20250514", reopened.GetString("llm.model"))
	assert.Equal(t, 5, reopened.GetInt("search.top_k"))
}

func TestConfigStore_LoadFlattensNestedTables(t *testing.T) {
	dir := t.TempDir()
	content := `[llm]
provider = "ollama"
model = "llama3.2"

[embedding]
model = "nomic-embed-text"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "ollama", store.GetString("llm.provider"))
	assert.Equal(t, "llama3.2", store.GetString("llm.model"))
	assert.Equal(t, "nomic-embed-text", store.GetString("embedding.model"))
}

func TestConfigStore_Delete(t *testing.T) {
	store, dir := newTestStore(t)

	require.NoError(t, store.Set("llm.api_key", "secret"))
	require.NoError(t, store.Delete("llm.api_key"))
	require.NoError(t, store.Delete("llm.api_key"), "deleting an absent key is not an error")

	assert.Empty(t, store.GetString("llm.api_key"))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Empty(t, reopened.GetString("llm.api_key"), "delete must persist")
}

func TestConfigStore_KeysSorted(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Set("zeta", "z"))
	require.NoError(t, store.Set("alpha", "a"))
	require.NoError(t, store.Set("mid", "m"))

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, store.Keys())
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, dir := newTestStore(t)
	require.NoError(t, store.Set("k", "v"))

	info, err := os.Stat(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Path(t *testing.T) {
	store, dir := newTestStore(t)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}
