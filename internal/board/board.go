// Package board wires the live wish stream to its consumers: it applies
// the configured ranking policy to every snapshot and fans the ordered
// result out to the list listener and the marker controller. Mutations
// never touch this state directly; they round-trip through the store and
// arrive back as the next snapshot.
package board

import (
	"context"
	"sync"

	"github.com/ranihwanifactory/2026newyear/internal/gateway"
	"github.com/ranihwanifactory/2026newyear/internal/markers"
	"github.com/ranihwanifactory/2026newyear/internal/models"
	"github.com/ranihwanifactory/2026newyear/internal/ranking"
	"github.com/ranihwanifactory/2026newyear/internal/store"
	"github.com/ranihwanifactory/2026newyear/internal/stream"
)

// View is one renderable board state: the display-ordered wishes plus the
// degraded-stream banner, if any. The wish list is replaced wholesale on
// every update and is safe to treat as immutable.
type View struct {
	Wishes   []models.Wish
	Mode     ranking.Mode
	Degraded bool
	Notice   string
}

// Listener receives every new view.
type Listener func(View)

type Board struct {
	adapter   *stream.Adapter[models.Wish]
	markers   *markers.Controller
	mode      ranking.Mode
	listener  Listener
	done      chan struct{}
	closeOnce sync.Once

	mu   sync.RWMutex
	view View
}

// New opens the wish subscription and starts delivering views. The order
// hint passed to the store is advisory; ranking here is authoritative.
func New(ctx context.Context, st store.Store, mode ranking.Mode, ctrl *markers.Controller, listener Listener) (*Board, error) {
	sub, err := st.Watch(ctx, gateway.WishCollection, store.WatchOptions{
		OrderBy: "created_at",
		Desc:    true,
	})
	if err != nil {
		return nil, err
	}

	b := &Board{
		adapter:  stream.NewAdapter(sub, stream.DecodeWish),
		markers:  ctrl,
		mode:     mode,
		listener: listener,
		done:     make(chan struct{}),
		view:     View{Mode: mode},
	}
	go b.run()
	return b, nil
}

func (b *Board) run() {
	for {
		select {
		case <-b.done:
			return
		case update, ok := <-b.adapter.Updates():
			if !ok {
				return
			}
			view := View{
				Wishes: ranking.Sort(update.Records, b.mode),
				Mode:   b.mode,
			}
			if update.Status != stream.StatusLive {
				view.Degraded = true
				view.Notice = banner(update.Status)
			}

			b.mu.Lock()
			b.view = view
			b.mu.Unlock()

			if b.markers != nil {
				b.markers.SetRecords(view.Wishes)
			}
			if b.listener != nil {
				b.listener(view)
			}
		}
	}
}

// View returns the latest delivered view.
func (b *Board) View() View {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.view
}

// Close tears down the subscription.
func (b *Board) Close() {
	b.closeOnce.Do(func() {
		close(b.done)
		b.adapter.Close()
	})
}

func banner(status stream.Status) string {
	switch status {
	case stream.StatusPermissionDenied:
		return "데이터를 읽을 권한이 없습니다. 보안 규칙을 확인해주세요."
	default:
		return "데이터를 불러오는 중 오류가 발생했습니다."
	}
}
