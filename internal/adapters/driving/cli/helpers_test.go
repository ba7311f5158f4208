package cli

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/custodia-labs/sercha-river/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-river/internal/core/domain"
	"github.com/custodia-labs/sercha-river/internal/core/ports/driven"
)

var errRemote = errors.New("remote unavailable")

// stubFeed serves one page holding files, then reports no more changes.
type stubFeed struct {
	files []string
	err   error
}

func (f *stubFeed) Type() string { return "stub" }

func (f *stubFeed) Changes(_ context.Context, marker string) (*domain.ChangePage, error) {
	if f.err != nil {
		return nil, f.err
	}
	if marker != "" {
		return &domain.ChangePage{Marker: marker}, nil
	}
	page := &domain.ChangePage{Marker: "m1"}
	for _, p := range f.files {
		page.Records = append(page.Records, domain.RawChange{
			Path: p,
			Meta: &domain.PathEntry{Path: p, DisplayPath: p, Size: 4, MIMEType: "text/plain"},
		})
	}
	return page, nil
}

func (f *stubFeed) Content(context.Context, domain.PathEntry) ([]byte, error) {
	return []byte("body"), nil
}

func (f *stubFeed) Close() error { return nil }

// stubFactory hands out a stubFeed per feed ID.
type stubFactory struct {
	mu    sync.Mutex
	feeds map[string]*stubFeed
}

func (f *stubFactory) Create(_ context.Context, feed domain.Feed) (driven.ChangeFeed, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sf, ok := f.feeds[feed.ID]; ok {
		return sf, nil
	}
	return &stubFeed{}, nil
}

type testRuntime struct {
	config      *memory.ConfigStore
	checkpoints *memory.CheckpointStore
	sink        *memory.IndexSink
	factory     *stubFactory
	watch       func(ctx context.Context, onChange func([]domain.Feed)) error
}

// setupRuntime swaps openRuntime for memory adapters holding feeds.
func setupRuntime(t *testing.T, feeds ...domain.Feed) *testRuntime {
	t.Helper()
	tr := &testRuntime{
		config:      memory.NewConfigStore(t.TempDir(), feeds...),
		checkpoints: memory.NewCheckpointStore(),
		sink:        memory.NewIndexSink(),
		factory:     &stubFactory{feeds: make(map[string]*stubFeed)},
	}

	old := openRuntime
	openRuntime = func(string) (*runtime, error) {
		return &runtime{
			config:      tr.config,
			checkpoints: tr.checkpoints,
			sink:        tr.sink,
			factory:     tr.factory,
			watch:       tr.watch,
		}, nil
	}
	t.Cleanup(func() { openRuntime = old })
	return tr
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeContext(context.Background(), t, args...)
}

func executeContext(ctx context.Context, t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	// Subcommands keep the context of their first execution.
	for _, c := range rootCmd.Commands() {
		c.SetContext(ctx)
	}

	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}

func testFeed(id string) domain.Feed {
	return domain.Feed{
		ID:          id,
		Provider:    domain.ProviderDropbox,
		Credentials: domain.FeedCredentials{AccessToken: "tok"},
	}
}
