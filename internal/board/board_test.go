package board

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/ranihwanifactory/2026newyear/internal/faults"
	"github.com/ranihwanifactory/2026newyear/internal/gateway"
	"github.com/ranihwanifactory/2026newyear/internal/models"
	"github.com/ranihwanifactory/2026newyear/internal/ranking"
	"github.com/ranihwanifactory/2026newyear/internal/store"
	"github.com/ranihwanifactory/2026newyear/internal/store/memstore"
)

func seedWish(t *testing.T, s *memstore.Store, content string, cheers int64, createdAt time.Time) string {
	t.Helper()
	id, err := s.Insert(context.Background(), gateway.WishCollection, map[string]interface{}{
		"author":     "말님",
		"content":    content,
		"cheers":     cheers,
		"created_at": createdAt,
		"owner_id":   "u1",
	})
	require.NoError(t, err)
	return id
}

func viewContents(v View) []string {
	out := make([]string, len(v.Wishes))
	for i, w := range v.Wishes {
		out[i] = w.Content
	}
	return out
}

func TestBoardDeliversRankedViewByRecency(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seedWish(t, s, "older", 9, base)
	seedWish(t, s, "newer", 0, base.Add(time.Hour))

	b, err := New(ctx, s, ranking.ByRecency, nil, nil)
	require.NoError(t, err)
	defer b.Close()

	require.Eventually(t, func() bool {
		return len(b.View().Wishes) == 2
	}, 2*time.Second, 5*time.Millisecond)

	view := b.View()
	assert.Equal(t, []string{"newer", "older"}, viewContents(view))
	assert.False(t, view.Degraded)
	assert.Empty(t, view.Notice)
}

func TestBoardPopularityMode(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seedWish(t, s, "quiet", 1, base.Add(time.Hour))
	seedWish(t, s, "loud", 7, base)

	b, err := New(ctx, s, ranking.ByPopularity, nil, nil)
	require.NoError(t, err)
	defer b.Close()

	require.Eventually(t, func() bool {
		v := b.View()
		return len(v.Wishes) == 2 && v.Wishes[0].Content == "loud"
	}, 2*time.Second, 5*time.Millisecond)
}

func TestBoardReflectsLiveMutations(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	id := seedWish(t, s, "cheer me", 0, base)

	b, err := New(ctx, s, ranking.ByRecency, nil, nil)
	require.NoError(t, err)
	defer b.Close()

	require.Eventually(t, func() bool {
		return len(b.View().Wishes) == 1
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, s.Increment(ctx, gateway.WishCollection, id, "cheers", 1))

	require.Eventually(t, func() bool {
		v := b.View()
		return len(v.Wishes) == 1 && v.Wishes[0].Cheers == 1
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, s.Delete(ctx, gateway.WishCollection, id))
	require.Eventually(t, func() bool {
		return len(b.View().Wishes) == 0
	}, 2*time.Second, 5*time.Millisecond)
}

// stubSub is a hand-driven subscription for degraded-stream scenarios.
type stubSub struct {
	snaps     chan store.Snapshot
	errs      chan error
	closeOnce sync.Once
}

func newStubSub() *stubSub {
	return &stubSub{
		snaps: make(chan store.Snapshot, 4),
		errs:  make(chan error, 4),
	}
}

func (s *stubSub) Snapshots() <-chan store.Snapshot { return s.snaps }
func (s *stubSub) Errors() <-chan error             { return s.errs }
func (s *stubSub) Close()                           { s.closeOnce.Do(func() {}) }

type stubStore struct{ sub *stubSub }

func (s *stubStore) Watch(context.Context, string, store.WatchOptions) (store.Subscription, error) {
	return s.sub, nil
}

func (s *stubStore) Insert(context.Context, string, map[string]interface{}) (string, error) {
	return "", errors.New("not supported")
}

func (s *stubStore) Update(context.Context, string, string, map[string]interface{}) error {
	return errors.New("not supported")
}

func (s *stubStore) Increment(context.Context, string, string, string, int64) error {
	return errors.New("not supported")
}

func (s *stubStore) Delete(context.Context, string, string) error {
	return errors.New("not supported")
}

func TestBoardDegradedBannerOnPermissionError(t *testing.T) {
	sub := newStubSub()
	raw, err := bson.Marshal(bson.M{"content": "kept", "cheers": int64(0)})
	require.NoError(t, err)
	sub.snaps <- store.Snapshot{Docs: []store.Document{{ID: "w1", Data: raw}}}

	b, err := New(context.Background(), &stubStore{sub: sub}, ranking.ByRecency, nil, nil)
	require.NoError(t, err)
	defer b.Close()

	require.Eventually(t, func() bool {
		return len(b.View().Wishes) == 1
	}, 2*time.Second, 5*time.Millisecond)

	sub.errs <- faults.New(faults.Permission, "read denied")

	require.Eventually(t, func() bool {
		return b.View().Degraded
	}, 2*time.Second, 5*time.Millisecond)

	view := b.View()
	assert.Equal(t, "데이터를 읽을 권한이 없습니다. 보안 규칙을 확인해주세요.", view.Notice)
	// The last good list stays visible under the banner.
	assert.Equal(t, []string{"kept"}, viewContents(view))
}

func TestBoardDegradedBannerOnTransportError(t *testing.T) {
	sub := newStubSub()
	sub.errs <- faults.New(faults.Transport, "offline")

	b, err := New(context.Background(), &stubStore{sub: sub}, ranking.ByRecency, nil, nil)
	require.NoError(t, err)
	defer b.Close()

	require.Eventually(t, func() bool {
		return b.View().Degraded
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "데이터를 불러오는 중 오류가 발생했습니다.", b.View().Notice)
}

func TestBoardNotifiesListener(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	seedWish(t, s, "listened", 0, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	views := make(chan View, 8)
	b, err := New(ctx, s, ranking.ByRecency, nil, func(v View) { views <- v })
	require.NoError(t, err)
	defer b.Close()

	select {
	case v := <-views:
		require.Len(t, v.Wishes, 1)
		assert.Equal(t, "listened", v.Wishes[0].Content)
	case <-time.After(2 * time.Second):
		t.Fatal("listener never notified")
	}
}

func TestCommentThreadOrdersOldestFirst(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	insertComment := func(wishID, content string, at time.Time) {
		_, err := s.Insert(ctx, gateway.CommentCollection, map[string]interface{}{
			"wish_id":    wishID,
			"owner_id":   "u1",
			"author":     "말님",
			"content":    content,
			"created_at": at,
		})
		require.NoError(t, err)
	}
	insertComment("w1", "second", base.Add(time.Hour))
	insertComment("w1", "first", base)
	insertComment("w2", "other thread", base)

	lists := make(chan []models.Comment, 8)
	thread, err := OpenCommentThread(ctx, s, "w1", func(comments []models.Comment) { lists <- comments })
	require.NoError(t, err)
	defer thread.Close()

	select {
	case comments := <-lists:
		require.Len(t, comments, 2)
		assert.Equal(t, "first", comments[0].Content)
		assert.Equal(t, "second", comments[1].Content)
	case <-time.After(2 * time.Second):
		t.Fatal("thread listener never notified")
	}
}
