package board

import (
	"context"
	"sync"

	"github.com/ranihwanifactory/2026newyear/internal/gateway"
	"github.com/ranihwanifactory/2026newyear/internal/models"
	"github.com/ranihwanifactory/2026newyear/internal/ranking"
	"github.com/ranihwanifactory/2026newyear/internal/store"
	"github.com/ranihwanifactory/2026newyear/internal/stream"
)

// CommentThread is the live, oldest-first comment list of one wish.
// Opened when the wish detail is shown and closed when it is dismissed.
type CommentThread struct {
	adapter   *stream.Adapter[models.Comment]
	listener  func([]models.Comment)
	done      chan struct{}
	closeOnce sync.Once
}

func OpenCommentThread(ctx context.Context, st store.Store, wishID string, listener func([]models.Comment)) (*CommentThread, error) {
	sub, err := st.Watch(ctx, gateway.CommentCollection, store.WatchOptions{
		FilterField: "wish_id",
		FilterValue: wishID,
		OrderBy:     "created_at",
	})
	if err != nil {
		return nil, err
	}

	t := &CommentThread{
		adapter:  stream.NewAdapter(sub, stream.DecodeComment),
		listener: listener,
		done:     make(chan struct{}),
	}
	go t.run()
	return t, nil
}

func (t *CommentThread) run() {
	for {
		select {
		case <-t.done:
			return
		case update, ok := <-t.adapter.Updates():
			if !ok {
				return
			}
			if t.listener != nil {
				t.listener(ranking.SortComments(update.Records))
			}
		}
	}
}

func (t *CommentThread) Close() {
	t.closeOnce.Do(func() {
		close(t.done)
		t.adapter.Close()
	})
}
