// Package store defines the document-store collaborator interface the
// board is written against: full-snapshot live subscriptions plus point
// writes with store-generated ids and atomic counter increments.
package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

// Document is one raw record: the store-assigned identifier and the
// undecoded field payload.
type Document struct {
	ID   string
	Data bson.Raw
}

// Snapshot is one complete delivery of all current documents matching a
// subscription. Deliveries always replace the previous snapshot wholesale;
// no diff information is available or implied.
type Snapshot struct {
	Docs []Document
}

// Subscription is a live feed of snapshots. Errors carry classified
// failures (see internal/faults); a subscription that errors keeps its
// channels open where recovery is possible. Close releases all resources
// held by the subscription and must be safe to call more than once.
type Subscription interface {
	Snapshots() <-chan Snapshot
	Errors() <-chan error
	Close()
}

// WatchOptions narrows and hints a subscription. The order hint is
// best-effort only: stores may not honor it, so consumers re-sort.
type WatchOptions struct {
	// FilterField/FilterValue restrict the subscription to documents whose
	// named field equals the value. Empty FilterField watches everything.
	FilterField string
	FilterValue interface{}
	// OrderBy names the hinted sort field, descending when Desc is set.
	OrderBy string
	Desc    bool
}

// Store is the document store contract. Increment must be atomic at the
// store; callers never read-modify-write counters.
type Store interface {
	Watch(ctx context.Context, collection string, opts WatchOptions) (Subscription, error)
	Insert(ctx context.Context, collection string, fields map[string]interface{}) (string, error)
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error
	Increment(ctx context.Context, collection, id, field string, delta int64) error
	Delete(ctx context.Context, collection, id string) error
}
