package memstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranihwanifactory/2026newyear/internal/store"
)

func nextSnapshot(t *testing.T, sub store.Subscription) store.Snapshot {
	t.Helper()
	select {
	case snap := <-sub.Snapshots():
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return store.Snapshot{}
	}
}

func TestWatchDeliversInitialSnapshot(t *testing.T) {
	ctx := context.Background()
	s := New()

	id, err := s.Insert(ctx, "wishes", map[string]interface{}{"content": "hello", "cheers": int64(0)})
	require.NoError(t, err)

	sub, err := s.Watch(ctx, "wishes", store.WatchOptions{})
	require.NoError(t, err)
	defer sub.Close()

	snap := nextSnapshot(t, sub)
	require.Len(t, snap.Docs, 1)
	assert.Equal(t, id, snap.Docs[0].ID)
}

func TestWatchSeesWritesAndDeletes(t *testing.T) {
	ctx := context.Background()
	s := New()

	sub, err := s.Watch(ctx, "wishes", store.WatchOptions{})
	require.NoError(t, err)
	defer sub.Close()

	assert.Empty(t, nextSnapshot(t, sub).Docs)

	id, err := s.Insert(ctx, "wishes", map[string]interface{}{"content": "here"})
	require.NoError(t, err)
	require.Len(t, nextSnapshot(t, sub).Docs, 1)

	require.NoError(t, s.Delete(ctx, "wishes", id))
	assert.Empty(t, nextSnapshot(t, sub).Docs)
}

func TestWatchFilterRestrictsSnapshot(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Insert(ctx, "comments", map[string]interface{}{"wish_id": "w1", "content": "a"})
	require.NoError(t, err)
	_, err = s.Insert(ctx, "comments", map[string]interface{}{"wish_id": "w2", "content": "b"})
	require.NoError(t, err)

	sub, err := s.Watch(ctx, "comments", store.WatchOptions{FilterField: "wish_id", FilterValue: "w1"})
	require.NoError(t, err)
	defer sub.Close()

	snap := nextSnapshot(t, sub)
	require.Len(t, snap.Docs, 1)
}

func TestConcurrentIncrementsConverge(t *testing.T) {
	ctx := context.Background()
	s := New()

	id, err := s.Insert(ctx, "wishes", map[string]interface{}{"content": "cheer me", "cheers": int64(2)})
	require.NoError(t, err)

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Increment(ctx, "wishes", id, "cheers", 1))
		}()
	}
	wg.Wait()

	s.mu.Lock()
	got := s.collections["wishes"][id]["cheers"]
	s.mu.Unlock()
	assert.Equal(t, int64(2+n), got)
}

func TestIncrementMissingDocument(t *testing.T) {
	s := New()
	err := s.Increment(context.Background(), "wishes", "nope", "cheers", 1)
	assert.Error(t, err)
}

func TestCloseStopsDeliveries(t *testing.T) {
	ctx := context.Background()
	s := New()

	sub, err := s.Watch(ctx, "wishes", store.WatchOptions{})
	require.NoError(t, err)
	nextSnapshot(t, sub)

	sub.Close()
	sub.Close() // repeated close must be safe

	_, err = s.Insert(ctx, "wishes", map[string]interface{}{"content": "after close"})
	require.NoError(t, err)

	select {
	case snap, ok := <-sub.Snapshots():
		if ok {
			t.Fatalf("unexpected snapshot after close: %v", snap)
		}
	case <-time.After(100 * time.Millisecond):
	}
}
