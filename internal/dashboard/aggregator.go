// Package dashboard derives summary counters from live collection
// projections.
package dashboard

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"CommunityPortal/internal/complaint"
	"CommunityPortal/internal/live"
	"CommunityPortal/internal/lostfound"
	"CommunityPortal/internal/store"
	"CommunityPortal/internal/volunteer"
)

// Counters is an immutable snapshot of the dashboard numbers.
type Counters struct {
	LostFound     int `json:"lostfound"`
	Complaints    int `json:"complaints"`
	Registrations int `json:"registrations"`
}

// tally is the minimal document slice needed to count a projection.
type tally struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (t tally) RecordID() primitive.ObjectID { return t.ID }

func (t tally) RecordCreated() time.Time { return t.CreatedAt }

// Aggregator keeps one counter per tracked collection. At mount it seeds the
// numbers with a point-in-time count per collection so nothing waits on the
// first live snapshot; from then on the counters come only from live
// updates, so the two sources swap once shortly after mount.
type Aggregator struct {
	st     store.Store
	logger *zap.Logger

	mu     sync.Mutex
	counts map[string]int
	scope  *live.Scope
}

// NewAggregator creates an unmounted aggregator.
func NewAggregator(st store.Store, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		st:     st,
		logger: logger,
		counts: make(map[string]int),
		scope:  live.NewScope(),
	}
}

var trackedCollections = []string{
	lostfound.Collection,
	complaint.Collection,
	volunteer.Collection,
}

// Mount seeds the initial counts and opens one live subscription per
// tracked collection. A failed initial count degrades to zero until the
// first live snapshot arrives.
func (a *Aggregator) Mount(ctx context.Context) {
	for _, collection := range trackedCollections {
		n, err := a.st.Count(ctx, collection, bson.M{})
		if err != nil {
			a.logger.Warn("initial dashboard count failed",
				zap.String("collection", collection), zap.Error(err))
			continue
		}
		a.setCount(collection, int(n))
	}
	for _, collection := range trackedCollections {
		coll := collection
		a.scope.Add(live.Watch[tally](a.st, coll, bson.M{}, a.logger, func(records []tally) {
			a.setCount(coll, len(records))
		}))
	}
}

// Unmount releases every subscription the aggregator holds.
func (a *Aggregator) Unmount() {
	a.scope.Close()
}

// Snapshot returns the current counters.
func (a *Aggregator) Snapshot() Counters {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Counters{
		LostFound:     a.counts[lostfound.Collection],
		Complaints:    a.counts[complaint.Collection],
		Registrations: a.counts[volunteer.Collection],
	}
}

func (a *Aggregator) setCount(collection string, n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.counts[collection] = n
}

// Attach mounts the aggregator on startup and releases its subscriptions on
// shutdown.
func Attach(lc fx.Lifecycle, a *Aggregator) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			a.Mount(ctx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			a.Unmount()
			return nil
		},
	})
}
