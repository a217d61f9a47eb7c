package auth

import (
	"sync"

	"github.com/ranihwanifactory/2026newyear/internal/models"
)

// broadcaster fans identity changes out to subscribers. Each subscriber
// channel holds one pending value; a stale pending value is replaced so
// slow consumers always observe the latest identity next.
type broadcaster struct {
	mu      sync.Mutex
	current *models.Identity
	subs    map[int]chan *models.Identity
	next    int
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[int]chan *models.Identity)}
}

func (b *broadcaster) subscribe() (<-chan *models.Identity, Unsubscribe) {
	b.mu.Lock()
	id := b.next
	b.next++
	ch := make(chan *models.Identity, 1)
	ch <- b.current
	b.subs[id] = ch
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
		b.mu.Unlock()
	}
}

func (b *broadcaster) set(ident *models.Identity) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = ident
	for _, ch := range b.subs {
		select {
		case <-ch:
		default:
		}
		ch <- ident
	}
}

func (b *broadcaster) get() *models.Identity {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}
