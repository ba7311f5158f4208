package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-river/internal/core/domain"
)

const sampleConfig = `
[storage]
data_dir = "/var/lib/sercha-river"

[index]
backend = "elasticsearch"
url = "http://es:9200"
name = "docs"
username = "elastic"
password = "${RIVER_TEST_ES_PASSWORD}"

[[feeds]]
id = "team"
root = "/Team"
update_rate = 60000
includes = ["*.md", " *.txt ", "*.md"]
excludes = "*.tmp, *~ ,"
bulk_size = 50

[feeds.credentials]
token = "${RIVER_TEST_TOKEN}"

[[feeds]]
id = "home"
provider = "Dropbox"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestNewConfigStore_Load(t *testing.T) {
	t.Setenv("RIVER_TEST_TOKEN", "sl.secret")
	t.Setenv("RIVER_TEST_ES_PASSWORD", "changeme")

	store, err := NewConfigStore(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	feeds := store.Feeds()
	require.Len(t, feeds, 2)

	team := feeds[0]
	assert.Equal(t, "team", team.ID)
	assert.Equal(t, domain.ProviderDropbox, team.Provider)
	assert.Equal(t, "/Team", team.Root)
	assert.Equal(t, time.Minute, team.UpdateRate)
	assert.Equal(t, 50, team.BatchSize)
	assert.Equal(t, []string{"*.md", "*.txt"}, team.Filter.Includes)
	assert.Equal(t, []string{"*.tmp", "*~"}, team.Filter.Excludes)
	assert.Equal(t, "sl.secret", team.Credentials.AccessToken)

	home := feeds[1]
	assert.Equal(t, domain.ProviderDropbox, home.Provider)
	assert.Equal(t, domain.DefaultUpdateRate, home.UpdateRate)
	assert.Equal(t, domain.DefaultBatchSize, home.BatchSize)
	assert.True(t, home.Filter.IsEmpty())

	index := store.Index()
	assert.Equal(t, domain.IndexBackendElasticsearch, index.Backend)
	assert.Equal(t, "http://es:9200", index.URL)
	assert.Equal(t, "docs", index.Name)
	assert.Equal(t, "elastic", index.Username)
	assert.Equal(t, "changeme", index.Password)

	assert.Equal(t, "/var/lib/sercha-river", store.DataDir())
}

func TestNewConfigStore_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")

	store, err := NewConfigStore(path)

	require.NoError(t, err)
	assert.Empty(t, store.Feeds())
	assert.Equal(t, domain.DefaultIndexSettings(), store.Index())
	assert.Equal(t, filepath.Join(filepath.Dir(path), "data"), store.DataDir())
	assert.Equal(t, path, store.Path())
}

func TestNewConfigStore_InvalidTOML(t *testing.T) {
	_, err := NewConfigStore(writeConfig(t, "[[feeds]\nid = "))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConfigStore_Load_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"duplicate ids", "[[feeds]]\nid = \"a\"\n[[feeds]]\nid = \"a\"\n"},
		{"missing id", "[[feeds]]\nroot = \"/x\"\n"},
		{"relative root", "[[feeds]]\nid = \"a\"\nroot = \"x\"\n"},
		{"bad pattern type", "[[feeds]]\nid = \"a\"\nincludes = 3\n"},
		{"bad pattern entry", "[[feeds]]\nid = \"a\"\nincludes = [\"*.md\", 3]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfigStore(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestConfigStore_Load_KeepsPreviousOnError(t *testing.T) {
	path := writeConfig(t, "[[feeds]]\nid = \"a\"\n")
	store, err := NewConfigStore(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("not toml ["), 0600))
	assert.Error(t, store.Load())
	assert.Len(t, store.Feeds(), 1)
}

func TestConfigStore_Feed(t *testing.T) {
	store, err := NewConfigStore(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	f, err := store.Feed("home")
	require.NoError(t, err)
	assert.Equal(t, "home", f.ID)

	_, err = store.Feed("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPatterns(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{"nil", nil, nil},
		{"empty string", "", nil},
		{"comma string", "a, b ,a,,c", []string{"a", "b", "c"}},
		{"string slice", []string{" x", "x", "y"}, []string{"x", "y"}},
		{"any slice", []any{"*.md", "*.md "}, []string{"*.md"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Patterns(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalisePatterns_PreservesOrder(t *testing.T) {
	assert.Equal(t, []string{"b", "a"}, NormalisePatterns([]string{"b", "a", "b", " a "}))
}
