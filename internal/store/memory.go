package store

import (
	"context"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-process Store used by tests and local development. It
// delivers subscription events synchronously from the mutating call, which
// keeps test interleavings deterministic.
type MemoryStore struct {
	mu        sync.Mutex
	data      map[string]map[primitive.ObjectID]bson.M
	subs      map[string][]*memorySub
	writeFail error
}

type memorySub struct {
	filter bson.M
	fn     EventFunc
	active bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[primitive.ObjectID]bson.M),
		subs: make(map[string][]*memorySub),
	}
}

// FailWrites makes every subsequent write return err. Pass nil to restore
// normal behavior.
func (m *MemoryStore) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeFail = err
}

// Disrupt delivers a transport error to every live subscription on the
// collection, as a broken change stream would.
func (m *MemoryStore) Disrupt(collection string, err error) {
	m.mu.Lock()
	subs := m.activeSubs(collection)
	m.mu.Unlock()
	for _, sub := range subs {
		sub.fn(nil, err)
	}
}

func (m *MemoryStore) ReadOnce(_ context.Context, collection string, filter bson.M) ([]bson.Raw, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot(collection, filter), nil
}

func (m *MemoryStore) Count(_ context.Context, collection string, filter bson.M) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, doc := range m.data[collection] {
		if matches(doc, filter) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) Insert(_ context.Context, collection string, doc interface{}) (primitive.ObjectID, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return primitive.NilObjectID, err
	}

	m.mu.Lock()
	if m.writeFail != nil {
		err := m.writeFail
		m.mu.Unlock()
		return primitive.NilObjectID, err
	}
	id, ok := fields["_id"].(primitive.ObjectID)
	if !ok || id.IsZero() {
		id = primitive.NewObjectID()
		fields["_id"] = id
	}
	if m.data[collection] == nil {
		m.data[collection] = make(map[primitive.ObjectID]bson.M)
	}
	m.data[collection][id] = fields
	deliveries := m.pendingDeliveries(collection)
	m.mu.Unlock()

	dispatch(deliveries)
	return id, nil
}

func (m *MemoryStore) Update(_ context.Context, collection string, id primitive.ObjectID, fields bson.M) error {
	m.mu.Lock()
	if m.writeFail != nil {
		err := m.writeFail
		m.mu.Unlock()
		return err
	}
	doc, ok := m.data[collection][id]
	if !ok {
		m.mu.Unlock()
		return ErrNotFound
	}
	for k, v := range fields {
		doc[k] = v
	}
	deliveries := m.pendingDeliveries(collection)
	m.mu.Unlock()

	dispatch(deliveries)
	return nil
}

// BatchUpdate applies every operation under one lock hold and notifies
// subscribers once, so no subscriber observes a partial batch.
func (m *MemoryStore) BatchUpdate(_ context.Context, collection string, ops []UpdateOp) error {
	if len(ops) == 0 {
		return nil
	}
	m.mu.Lock()
	if m.writeFail != nil {
		err := m.writeFail
		m.mu.Unlock()
		return err
	}
	for _, op := range ops {
		doc, ok := m.data[collection][op.ID]
		if !ok {
			continue
		}
		for k, v := range op.Fields {
			doc[k] = v
		}
	}
	deliveries := m.pendingDeliveries(collection)
	m.mu.Unlock()

	dispatch(deliveries)
	return nil
}

func (m *MemoryStore) Subscribe(collection string, filter bson.M, fn EventFunc) CancelFunc {
	sub := &memorySub{filter: filter, fn: fn, active: true}
	m.mu.Lock()
	m.subs[collection] = append(m.subs[collection], sub)
	initial := m.snapshot(collection, filter)
	m.mu.Unlock()

	fn(initial, nil)
	return func() {
		m.mu.Lock()
		sub.active = false
		m.mu.Unlock()
	}
}

type delivery struct {
	fn   EventFunc
	docs []bson.Raw
}

// pendingDeliveries builds per-subscriber snapshots under the held lock.
func (m *MemoryStore) pendingDeliveries(collection string) []delivery {
	var out []delivery
	for _, sub := range m.activeSubs(collection) {
		out = append(out, delivery{fn: sub.fn, docs: m.snapshot(collection, sub.filter)})
	}
	return out
}

// dispatch runs callbacks outside the lock so they may call back into the store.
func dispatch(deliveries []delivery) {
	for _, d := range deliveries {
		d.fn(d.docs, nil)
	}
}

func (m *MemoryStore) activeSubs(collection string) []*memorySub {
	var out []*memorySub
	for _, sub := range m.subs[collection] {
		if sub.active {
			out = append(out, sub)
		}
	}
	return out
}

func (m *MemoryStore) snapshot(collection string, filter bson.M) []bson.Raw {
	var out []bson.Raw
	for _, doc := range m.data[collection] {
		if !matches(doc, filter) {
			continue
		}
		raw, err := bson.Marshal(doc)
		if err != nil {
			continue
		}
		out = append(out, bson.Raw(raw))
	}
	return out
}

func matches(doc bson.M, filter bson.M) bool {
	for k, v := range filter {
		if !reflect.DeepEqual(doc[k], v) {
			return false
		}
	}
	return true
}
