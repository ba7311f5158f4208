package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/custodia-labs/sercha-river/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-river/internal/adapters/driven/search/elasticsearch"
	"github.com/custodia-labs/sercha-river/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sercha-river/internal/connectors/dropbox"
	"github.com/custodia-labs/sercha-river/internal/core/domain"
	"github.com/custodia-labs/sercha-river/internal/core/ports/driven"
)

// runtime holds the adapters a command works against.
type runtime struct {
	config      driven.ConfigStore
	checkpoints driven.CheckpointStore
	sink        driven.IndexSink
	factory     driven.ChangeFeedFactory

	// watch follows config changes until ctx ends. Nil disables hot reload.
	watch func(ctx context.Context, onChange func([]domain.Feed)) error

	closers []io.Closer
}

// Close releases the adapters in reverse order of opening.
func (r *runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		errs = append(errs, r.closers[i].Close())
	}
	r.closers = nil
	return errors.Join(errs...)
}

// openRuntime is replaced in tests.
var openRuntime = defaultRuntime

func defaultRuntime(path string) (*runtime, error) {
	store, err := file.NewConfigStore(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	db, err := sqlite.NewStore(store.DataDir())
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	rt := &runtime{
		config:      store,
		checkpoints: db.CheckpointStore(),
		factory:     dropbox.NewFactory(),
		watch: func(ctx context.Context, onChange func([]domain.Feed)) error {
			return file.NewWatcher(store, onChange).Run(ctx)
		},
		closers: []io.Closer{db},
	}

	sink, err := newSink(store.Index(), db)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	rt.sink = sink
	rt.closers = append(rt.closers, sink)
	return rt, nil
}

// newSink selects the index backend.
func newSink(settings domain.IndexSettings, db *sqlite.Store) (driven.IndexSink, error) {
	switch settings.Backend {
	case "", domain.IndexBackendSQLite:
		return db.IndexSink(), nil
	case domain.IndexBackendElasticsearch:
		return elasticsearch.New(settings)
	default:
		return nil, fmt.Errorf("%w: index backend %q", domain.ErrUnsupportedType, settings.Backend)
	}
}

// selectFeeds returns the feed named by args, or every configured feed.
func selectFeeds(cfg driven.ConfigStore, args []string) ([]domain.Feed, error) {
	if len(args) > 0 {
		feed, err := cfg.Feed(args[0])
		if err != nil {
			return nil, err
		}
		return []domain.Feed{feed}, nil
	}

	feeds := cfg.Feeds()
	if len(feeds) == 0 {
		return nil, fmt.Errorf("no feeds configured in %s", cfg.Path())
	}
	return feeds, nil
}
