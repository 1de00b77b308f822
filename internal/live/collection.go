// Package live keeps in-memory projections of filtered store collections
// current through push subscriptions.
package live

import (
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"CommunityPortal/internal/store"
)

// Record is the contract a collection's document type must satisfy to be
// projected.
type Record interface {
	RecordID() primitive.ObjectID
	RecordCreated() time.Time
}

// Handle cancels one live subscription. Cancel is idempotent; every owner
// must release its handle on teardown or the subscription leaks.
type Handle struct {
	once   sync.Once
	cancel store.CancelFunc
}

// Cancel stops delivery.
func (h *Handle) Cancel() {
	h.once.Do(h.cancel)
}

// Watch subscribes to the filtered collection and invokes onUpdate with a
// fresh projection on the initial snapshot and after every delta. On a
// transport or decode error onUpdate receives an empty projection once and
// the subscription stays open; the store handles its own retries.
func Watch[T Record](st store.Store, collection string, filter bson.M, logger *zap.Logger, onUpdate func([]T)) *Handle {
	cancel := st.Subscribe(collection, filter, func(docs []bson.Raw, err error) {
		if err != nil {
			onUpdate([]T{})
			return
		}
		records, err := store.DecodeAll[T](docs)
		if err != nil {
			logger.Warn("projection decode failed",
				zap.String("collection", collection), zap.Error(err))
			onUpdate([]T{})
			return
		}
		onUpdate(Project(records))
	})
	return &Handle{cancel: cancel}
}

// Project returns the records deduplicated by id and sorted newest first.
// Records without a server timestamp yet (in-flight writes) sort last.
func Project[T Record](records []T) []T {
	out := make([]T, 0, len(records))
	seen := make(map[primitive.ObjectID]bool, len(records))
	for _, r := range records {
		if seen[r.RecordID()] {
			continue
		}
		seen[r.RecordID()] = true
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RecordCreated().After(out[j].RecordCreated())
	})
	return out
}

// Scope owns the cancel handles acquired over one view lifetime and releases
// them together on Close, through every exit path.
type Scope struct {
	mu      sync.Mutex
	handles []*Handle
	closed  bool
}

// NewScope creates an empty scope.
func NewScope() *Scope {
	return &Scope{}
}

// Add registers a handle with the scope. Adding to a closed scope cancels
// the handle immediately.
func (s *Scope) Add(h *Handle) *Handle {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		h.Cancel()
		return h
	}
	s.handles = append(s.handles, h)
	s.mu.Unlock()
	return h
}

// Close cancels every registered handle.
func (s *Scope) Close() {
	s.mu.Lock()
	handles := s.handles
	s.handles = nil
	s.closed = true
	s.mu.Unlock()
	for _, h := range handles {
		h.Cancel()
	}
}
