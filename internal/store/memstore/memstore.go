// Package memstore is an in-memory document store used by tests and the
// offline demo mode. It implements the same snapshot-subscription and
// atomic-increment contract as the Mongo-backed store.
package memstore

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/ranihwanifactory/2026newyear/internal/faults"
	"github.com/ranihwanifactory/2026newyear/internal/store"
)

// Store holds documents per collection and fans snapshots out to watchers.
type Store struct {
	mu          sync.Mutex
	collections map[string]map[string]map[string]interface{}
	subs        map[string][]*subscription
}

func New() *Store {
	return &Store{
		collections: make(map[string]map[string]map[string]interface{}),
		subs:        make(map[string][]*subscription),
	}
}

func (s *Store) Insert(_ context.Context, collection string, fields map[string]interface{}) (string, error) {
	id := uuid.NewString()

	s.mu.Lock()
	coll := s.collections[collection]
	if coll == nil {
		coll = make(map[string]map[string]interface{})
		s.collections[collection] = coll
	}
	coll[id] = copyFields(fields)
	s.mu.Unlock()

	s.notify(collection)
	return id, nil
}

func (s *Store) Update(_ context.Context, collection, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	doc, ok := s.collections[collection][id]
	if !ok {
		s.mu.Unlock()
		return faults.New(faults.Unknown, "document not found")
	}
	for k, v := range fields {
		doc[k] = v
	}
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

func (s *Store) Increment(_ context.Context, collection, id, field string, delta int64) error {
	s.mu.Lock()
	doc, ok := s.collections[collection][id]
	if !ok {
		s.mu.Unlock()
		return faults.New(faults.Unknown, "document not found")
	}
	doc[field] = asInt64(doc[field]) + delta
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

func (s *Store) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	delete(s.collections[collection], id)
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

func (s *Store) Watch(_ context.Context, collection string, opts store.WatchOptions) (store.Subscription, error) {
	sub := &subscription{
		owner:      s,
		collection: collection,
		opts:       opts,
		snaps:      make(chan store.Snapshot, 1),
		errs:       make(chan error, 1),
		done:       make(chan struct{}),
	}

	s.mu.Lock()
	s.subs[collection] = append(s.subs[collection], sub)
	snap := s.snapshotLocked(collection, opts)
	s.mu.Unlock()

	sub.deliver(snap)
	return sub, nil
}

// notify rebuilds and delivers a snapshot for every watcher of the collection.
func (s *Store) notify(collection string) {
	s.mu.Lock()
	subs := make([]*subscription, len(s.subs[collection]))
	copy(subs, s.subs[collection])
	snaps := make([]store.Snapshot, len(subs))
	for i, sub := range subs {
		snaps[i] = s.snapshotLocked(collection, sub.opts)
	}
	s.mu.Unlock()

	for i, sub := range subs {
		sub.deliver(snaps[i])
	}
}

func (s *Store) snapshotLocked(collection string, opts store.WatchOptions) store.Snapshot {
	var snap store.Snapshot
	for id, fields := range s.collections[collection] {
		if opts.FilterField != "" && fields[opts.FilterField] != opts.FilterValue {
			continue
		}
		raw, err := bson.Marshal(bson.M(fields))
		if err != nil {
			continue
		}
		snap.Docs = append(snap.Docs, store.Document{ID: id, Data: bson.Raw(raw)})
	}
	return snap
}

func (s *Store) unsubscribe(collection string, sub *subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	subs := s.subs[collection]
	for i, candidate := range subs {
		if candidate == sub {
			s.subs[collection] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}

type subscription struct {
	owner      *Store
	collection string
	opts       store.WatchOptions
	snaps      chan store.Snapshot
	errs       chan error
	done       chan struct{}
	closeOnce  sync.Once
}

func (s *subscription) Snapshots() <-chan store.Snapshot { return s.snaps }

func (s *subscription) Errors() <-chan error { return s.errs }

func (s *subscription) Close() {
	s.closeOnce.Do(func() {
		s.owner.unsubscribe(s.collection, s)
		close(s.done)
	})
}

// deliver replaces any stale pending snapshot so a slow consumer always
// sees the latest state next.
func (s *subscription) deliver(snap store.Snapshot) {
	select {
	case <-s.done:
		return
	default:
	}
	select {
	case <-s.snaps:
	default:
	}
	select {
	case s.snaps <- snap:
	case <-s.done:
	}
}

func copyFields(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}
