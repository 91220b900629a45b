package store_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/newsharvest/internal/domain"
	"github.com/jonesrussell/newsharvest/internal/logger"
	"github.com/jonesrussell/newsharvest/internal/store"
)

func tempStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "articles.json")
}

func newDoc(url, title string) domain.Document {
	return domain.Document{
		URL:         url,
		Title:       title,
		Text:        "Body text.",
		Success:     true,
		ExtractedAt: time.Now(),
	}
}

func TestOpen_MissingFileStartsFresh(t *testing.T) {
	t.Parallel()

	s := store.Open(tempStorePath(t), logger.NewNoOp())

	assert.Zero(t, s.Len())
	assert.Empty(t, s.NextLink())
}

func TestOpen_CorruptFileStartsFresh(t *testing.T) {
	t.Parallel()

	path := tempStorePath(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"articles": [tru`), 0o644))

	s := store.Open(path, logger.NewNoOp())

	assert.Zero(t, s.Len())
	assert.Empty(t, s.NextLink())
}

func TestOpen_LegacyBareArray(t *testing.T) {
	t.Parallel()

	path := tempStorePath(t)
	legacy := `[{"url":"https://island.lk/old-story","title":"Old","text":"t","success":true,"extracted_at":"2025-01-02T03:04:05Z"}]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	s := store.Open(path, logger.NewNoOp())

	require.Equal(t, 1, s.Len())
	assert.Equal(t, "https://island.lk/old-story", s.Documents()[0].URL)
	assert.Empty(t, s.NextLink(), "legacy shape has no continuation link")
	assert.True(t, s.Contains("https://island.lk/old-story"))
}

func TestSaveAndReload(t *testing.T) {
	t.Parallel()

	path := tempStorePath(t)

	s := store.Open(path, logger.NewNoOp())
	s.Append(newDoc("https://island.lk/a", "A"))
	s.SetNextLink("https://island.lk/page/2/?s=mas")
	require.NoError(t, s.Save())

	reloaded := store.Open(path, logger.NewNoOp())
	require.Equal(t, 1, reloaded.Len())
	assert.Equal(t, "A", reloaded.Documents()[0].Title)
	assert.Equal(t, "https://island.lk/page/2/?s=mas", reloaded.NextLink())
	assert.True(t, reloaded.Contains("http://island.lk/a/"), "index is rebuilt from normalized URLs")
}

func TestSave_WireShape(t *testing.T) {
	t.Parallel()

	path := tempStorePath(t)

	s := store.Open(path, logger.NewNoOp())
	s.Append(newDoc("https://island.lk/a", "A"))
	require.NoError(t, s.Save())

	raw, readErr := os.ReadFile(path)
	require.NoError(t, readErr)

	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Contains(t, payload, "articles")
	assert.Contains(t, payload, "next_link")
	assert.Equal(t, "null", string(payload["next_link"]), "absent continuation is serialized as null")
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	path := tempStorePath(t)

	s := store.Open(path, logger.NewNoOp())
	s.Append(newDoc("https://island.lk/a", "A"))
	require.NoError(t, s.Save())
	s.Append(newDoc("https://island.lk/b", "B"))
	require.NoError(t, s.Save())

	entries, readErr := os.ReadDir(filepath.Dir(path))
	require.NoError(t, readErr)
	require.Len(t, entries, 1, "only the state file remains after saving")
	assert.Equal(t, filepath.Base(path), entries[0].Name())
}

func TestOpen_StrayTempFromCrashIsIgnored(t *testing.T) {
	t.Parallel()

	path := tempStorePath(t)

	s := store.Open(path, logger.NewNoOp())
	s.Append(newDoc("https://island.lk/a", "A"))
	require.NoError(t, s.Save())

	// A crash between temp write and rename leaves a stray partial temp
	// file; the target path still holds the prior valid state.
	stray := path + ".tmp-123456"
	require.NoError(t, os.WriteFile(stray, []byte(`{"articles": [{"url"`), 0o644))

	reloaded := store.Open(path, logger.NewNoOp())
	require.Equal(t, 1, reloaded.Len())
	assert.Equal(t, "https://island.lk/a", reloaded.Documents()[0].URL)
}

func TestContains_NormalizationEquivalence(t *testing.T) {
	t.Parallel()

	s := store.Open(tempStorePath(t), logger.NewNoOp())
	s.Append(newDoc("http://example.com/a", "A"))

	assert.True(t, s.Contains("http://example.com/a"))
	assert.True(t, s.Contains("https://example.com/a"))
	assert.True(t, s.Contains("https://example.com/a/"))
	assert.False(t, s.Contains("https://example.com/b"))
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"http://example.com/a", "example.com/a"},
		{"https://example.com/a", "example.com/a"},
		{"https://example.com/a/", "example.com/a"},
		{"example.com/a//", "example.com/a"},
		{"https://example.com", "example.com"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, store.Normalize(tt.in), "normalize %q", tt.in)
	}
}

func TestAppend_PreservesOrder(t *testing.T) {
	t.Parallel()

	path := tempStorePath(t)

	s := store.Open(path, logger.NewNoOp())
	s.Append(newDoc("https://island.lk/pre-existing", "Pre"))
	require.NoError(t, s.Save())

	s = store.Open(path, logger.NewNoOp())
	for _, u := range []string{"https://island.lk/u1", "https://island.lk/u2", "https://island.lk/u3"} {
		s.Append(newDoc(u, u))
	}
	require.NoError(t, s.Save())

	reloaded := store.Open(path, logger.NewNoOp())
	urls := make([]string, 0, reloaded.Len())
	for _, doc := range reloaded.Documents() {
		urls = append(urls, doc.URL)
	}
	assert.Equal(t, []string{
		"https://island.lk/pre-existing",
		"https://island.lk/u1",
		"https://island.lk/u2",
		"https://island.lk/u3",
	}, urls)
}

func TestSetNextLink_Overwrite(t *testing.T) {
	t.Parallel()

	s := store.Open(tempStorePath(t), logger.NewNoOp())

	s.SetNextLink("https://island.lk/page/2/?s=mas")
	assert.Equal(t, "https://island.lk/page/2/?s=mas", s.NextLink())

	s.SetNextLink("https://island.lk/page/3/?s=mas")
	assert.Equal(t, "https://island.lk/page/3/?s=mas", s.NextLink())

	s.SetNextLink("")
	assert.Empty(t, s.NextLink())
}
