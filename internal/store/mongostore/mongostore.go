// Package mongostore implements the document store contract on MongoDB.
// Live subscriptions are built from change streams: every change event
// triggers a full re-query so consumers always receive complete snapshots,
// never diffs.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ranihwanifactory/2026newyear/internal/faults"
	"github.com/ranihwanifactory/2026newyear/internal/store"
)

type Store struct {
	db *mongo.Database
}

func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) Insert(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	result, err := s.db.Collection(collection).InsertOne(ctx, bson.M(fields))
	if err != nil {
		return "", classify(err, "failed to insert document")
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprint(result.InsertedID), nil
}

func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return faults.Wrap(faults.Validation, "invalid document id", err)
	}
	_, err = s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return classify(err, "failed to update document")
	}
	return nil
}

func (s *Store) Increment(ctx context.Context, collection, id, field string, delta int64) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return faults.Wrap(faults.Validation, "invalid document id", err)
	}
	_, err = s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{field: delta}})
	if err != nil {
		return classify(err, "failed to increment counter")
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return faults.Wrap(faults.Validation, "invalid document id", err)
	}
	_, err = s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return classify(err, "failed to delete document")
	}
	return nil
}

func (s *Store) Watch(ctx context.Context, collection string, opts store.WatchOptions) (store.Subscription, error) {
	watchCtx, cancel := context.WithCancel(ctx)

	coll := s.db.Collection(collection)
	cs, err := coll.Watch(watchCtx, mongo.Pipeline{})
	if err != nil {
		cancel()
		return nil, classify(err, "failed to open change stream")
	}

	sub := &subscription{
		coll:   coll,
		opts:   opts,
		cancel: cancel,
		snaps:  make(chan store.Snapshot, 1),
		errs:   make(chan error, 1),
		done:   make(chan struct{}),
	}
	go sub.run(watchCtx, cs)
	return sub, nil
}

type subscription struct {
	coll      *mongo.Collection
	opts      store.WatchOptions
	cancel    context.CancelFunc
	snaps     chan store.Snapshot
	errs      chan error
	done      chan struct{}
	closeOnce sync.Once
}

func (s *subscription) Snapshots() <-chan store.Snapshot { return s.snaps }

func (s *subscription) Errors() <-chan error { return s.errs }

func (s *subscription) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.cancel()
	})
}

func (s *subscription) run(ctx context.Context, cs *mongo.ChangeStream) {
	defer cs.Close(context.Background())

	// Initial materialization, then one re-query per change event.
	s.requery(ctx)
	for cs.Next(ctx) {
		s.requery(ctx)
	}

	if err := cs.Err(); err != nil && ctx.Err() == nil {
		s.fail(classify(err, "change stream ended"))
	}
}

func (s *subscription) requery(ctx context.Context) {
	snap, err := s.query(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.fail(err)
		}
		return
	}
	s.deliver(snap)
}

func (s *subscription) query(ctx context.Context) (store.Snapshot, error) {
	filter := bson.M{}
	if s.opts.FilterField != "" {
		filter[s.opts.FilterField] = s.opts.FilterValue
	}
	findOpts := options.Find()
	if s.opts.OrderBy != "" {
		dir := 1
		if s.opts.Desc {
			dir = -1
		}
		findOpts.SetSort(bson.D{{Key: s.opts.OrderBy, Value: dir}})
	}

	cur, err := s.coll.Find(ctx, filter, findOpts)
	if err != nil {
		return store.Snapshot{}, classify(err, "failed to materialize snapshot")
	}
	defer cur.Close(ctx)

	var snap store.Snapshot
	for cur.Next(ctx) {
		raw := make(bson.Raw, len(cur.Current))
		copy(raw, cur.Current)
		snap.Docs = append(snap.Docs, store.Document{ID: documentID(raw), Data: raw})
	}
	if err := cur.Err(); err != nil {
		return store.Snapshot{}, classify(err, "failed to materialize snapshot")
	}
	return snap, nil
}

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

func (s *subscription) fail(err error) {
	logrus.WithError(err).Warn("Document subscription degraded")
	select {
	case s.errs <- err:
	case <-s.done:
	default:
	}
}

func documentID(raw bson.Raw) string {
	v, err := raw.LookupErr("_id")
	if err != nil {
		return ""
	}
	if oid, ok := v.ObjectIDOK(); ok {
		return oid.Hex()
	}
	if str, ok := v.StringValueOK(); ok {
		return str
	}
	return v.String()
}

// classify maps driver failures onto the coarse error taxonomy: auth
// rejections are permission errors, network and timeout failures are
// transport errors, everything else stays unknown.
func classify(err error, msg string) *faults.Error {
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return faults.Wrap(faults.Transport, msg, err)
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		// 13 Unauthorized, 18 AuthenticationFailed
		if cmdErr.Code == 13 || cmdErr.Code == 18 {
			return faults.Wrap(faults.Permission, msg, err)
		}
	}
	return faults.Wrap(faults.Unknown, msg, err)
}
