package domain

// Index backends.
const (
	IndexBackendElasticsearch = "elasticsearch"
	IndexBackendSQLite        = "sqlite"
)

// IndexSettings configure the sink documents are written to.
type IndexSettings struct {
	// Backend selects the sink implementation.
	Backend string

	// URL is the base URL of a remote index.
	URL string

	// Name is the index name.
	Name string

	// Username and Password enable basic authentication when set.
	Username string
	Password string
}

// DefaultIndexSettings returns the settings used when the config has no [index] table.
func DefaultIndexSettings() IndexSettings {
	return IndexSettings{
		Backend: IndexBackendSQLite,
		URL:     "http://localhost:9200",
		Name:    "dropbox",
	}
}
