package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-river/internal/core/domain"
)

func TestNewCheckpointStore(t *testing.T) {
	store := NewCheckpointStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.checkpoints)
}

func TestCheckpointStore_Load_NotFound(t *testing.T) {
	store := NewCheckpointStore()

	cp, err := store.Load(context.Background(), "missing")

	assert.Nil(t, cp)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCheckpointStore_Save_Success(t *testing.T) {
	store := NewCheckpointStore()
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, store.Save(ctx, domain.Checkpoint{
		FeedID:   "team",
		Marker:   "AAH4",
		Stats:    domain.CycleStats{Added: 3, Deleted: 1},
		LastSync: now,
	}))

	saved, err := store.Load(ctx, "team")
	require.NoError(t, err)
	assert.Equal(t, "AAH4", saved.Marker)
	assert.Equal(t, 3, saved.Stats.Added)
	assert.Equal(t, 1, saved.Stats.Deleted)
	assert.Equal(t, now.Unix(), saved.LastSync.Unix())
}

func TestCheckpointStore_Save_ReplacesWholeRecord(t *testing.T) {
	store := NewCheckpointStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Checkpoint{FeedID: "team", Marker: "m1", Stats: domain.CycleStats{Added: 9, Failed: 2}}))
	require.NoError(t, store.Save(ctx, domain.Checkpoint{FeedID: "team", Marker: "m2", Stats: domain.CycleStats{Deleted: 1}}))

	saved, err := store.Load(ctx, "team")
	require.NoError(t, err)
	assert.Equal(t, "m2", saved.Marker)
	assert.Equal(t, domain.CycleStats{Deleted: 1}, saved.Stats)
}

func TestCheckpointStore_Delete(t *testing.T) {
	store := NewCheckpointStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Checkpoint{FeedID: "team", Marker: "m1"}))
	require.NoError(t, store.Delete(ctx, "team"))
	require.NoError(t, store.Delete(ctx, "never-saved"))

	_, err := store.Load(ctx, "team")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCheckpointStore_List_Sorted(t *testing.T) {
	store := NewCheckpointStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Checkpoint{FeedID: "b"}))
	require.NoError(t, store.Save(ctx, domain.Checkpoint{FeedID: "a"}))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].FeedID)
	assert.Equal(t, "b", list[1].FeedID)
}

func TestCheckpointStore_ConcurrentAccess(t *testing.T) {
	store := NewCheckpointStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Save(ctx, domain.Checkpoint{FeedID: "team", Marker: "m"})
			_, _ = store.Load(ctx, "team")
		}(i)
	}
	wg.Wait()

	cp, err := store.Load(ctx, "team")
	require.NoError(t, err)
	assert.Equal(t, "m", cp.Marker)
}
