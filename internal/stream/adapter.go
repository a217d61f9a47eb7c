// Package stream normalizes a raw store subscription into typed record
// updates. Every delivery replaces the held list wholesale, and a failed
// subscription degrades into a classified status while the last-known-good
// list keeps being served.
package stream

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ranihwanifactory/2026newyear/internal/faults"
	"github.com/ranihwanifactory/2026newyear/internal/store"
)

// Status is the coarse health of the subscription as of an update.
type Status int

const (
	StatusLive Status = iota
	StatusPermissionDenied
	StatusTransportError
	StatusUnknownError
)

// Update carries a freshly materialized record list. When Status is not
// StatusLive, Records holds the last-known-good list and Err the cause;
// consumers render the list with a non-blocking banner instead of clearing.
type Update[T any] struct {
	Records []T
	Status  Status
	Err     error
}

// Decoder turns one raw document into a typed record.
type Decoder[T any] func(store.Document) (T, error)

// Adapter owns a store subscription for its lifetime: open on construction,
// released by Close.
type Adapter[T any] struct {
	sub       store.Subscription
	decode    Decoder[T]
	updates   chan Update[T]
	done      chan struct{}
	closeOnce sync.Once
}

func NewAdapter[T any](sub store.Subscription, decode Decoder[T]) *Adapter[T] {
	a := &Adapter[T]{
		sub:     sub,
		decode:  decode,
		updates: make(chan Update[T], 1),
		done:    make(chan struct{}),
	}
	go a.run()
	return a
}

// Updates delivers typed record updates. Only the latest pending update is
// retained; intermediate states a slow consumer missed are dropped.
func (a *Adapter[T]) Updates() <-chan Update[T] {
	return a.updates
}

// Close unsubscribes from the store and stops delivery. No update is
// delivered after Close returns to a consumer already drained.
func (a *Adapter[T]) Close() {
	a.closeOnce.Do(func() {
		close(a.done)
		a.sub.Close()
	})
}

func (a *Adapter[T]) run() {
	snaps := a.sub.Snapshots()
	errs := a.sub.Errors()
	var last []T

	for {
		select {
		case <-a.done:
			return
		case snap, ok := <-snaps:
			if !ok {
				snaps = nil
				if errs == nil {
					return
				}
				continue
			}
			records := make([]T, 0, len(snap.Docs))
			for _, doc := range snap.Docs {
				rec, err := a.decode(doc)
				if err != nil {
					logrus.WithError(err).WithField("doc_id", doc.ID).Warn("Skipping undecodable document")
					continue
				}
				records = append(records, rec)
			}
			last = records
			a.deliver(Update[T]{Records: records, Status: StatusLive})
		case err, ok := <-errs:
			if !ok {
				errs = nil
				if snaps == nil {
					return
				}
				continue
			}
			a.deliver(Update[T]{Records: last, Status: statusOf(err), Err: err})
		}
	}
}

func (a *Adapter[T]) deliver(u Update[T]) {
	select {
	case <-a.done:
		return
	default:
	}
	select {
	case <-a.updates:
	default:
	}
	select {
	case a.updates <- u:
	case <-a.done:
	}
}

func statusOf(err error) Status {
	switch faults.KindOf(err) {
	case faults.Permission:
		return StatusPermissionDenied
	case faults.Transport:
		return StatusTransportError
	default:
		return StatusUnknownError
	}
}
