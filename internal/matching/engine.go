// Package matching scans lost-and-found reports for keyword overlap and
// emits cross-notifications to both parties of a possible match.
package matching

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"CommunityPortal/internal/notification"
	"CommunityPortal/internal/store"
)

// Tokens must be longer than this many runes to participate in matching.
const minTokenLen = 3

// report is the slice of a lost-and-found document the engine needs.
type report struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID string             `bson:"owner_id"`
	Title   string             `bson:"title"`
}

// Engine matches new submissions against existing reports.
type Engine struct {
	st         store.Store
	hub        *notification.Hub
	collection string
	logger     *zap.Logger
}

// NewEngine creates an engine scanning the given collection.
func NewEngine(st store.Store, hub *notification.Hub, collection string, logger *zap.Logger) *Engine {
	return &Engine{st: st, hub: hub, collection: collection, logger: logger}
}

// OnSubmit scans a one-time read of the collection for titles sharing a
// keyword with the new submission. Matching is substring containment on
// lower-cased tokens, so inflected words still match; false positives are
// acceptable and left to a human reviewer. Each notification is an
// independent best-effort write, and no party is notified twice for the same
// match pair within one invocation. Re-submitting can notify again; there is
// no cross-invocation dedup.
func (e *Engine) OnSubmit(ctx context.Context, newID primitive.ObjectID, newTitle, submitterID string) {
	tokens := tokenize(newTitle)
	if len(tokens) == 0 {
		// Short or generic titles never match.
		return
	}

	docs, err := e.st.ReadOnce(ctx, e.collection, bson.M{})
	if err != nil {
		e.logger.Warn("match scan failed", zap.Error(err))
		return
	}
	reports, err := store.DecodeAll[report](docs)
	if err != nil {
		e.logger.Warn("match scan decode failed", zap.Error(err))
		return
	}

	notified := make(map[string]bool)
	for _, other := range reports {
		// Self-exclusion is by id, not title: two identical titles from
		// different users still match.
		if other.ID == newID {
			continue
		}
		if !containsAny(strings.ToLower(other.Title), tokens) {
			continue
		}

		submitterKey := submitterID + "/" + other.ID.Hex()
		if !notified[submitterKey] {
			notified[submitterKey] = true
			e.hub.Create(ctx, submitterID,
				fmt.Sprintf("%q may match your report", other.Title),
				notification.CategoryMatch)
		}
		if other.OwnerID == submitterID {
			continue
		}
		ownerKey := other.OwnerID + "/" + other.ID.Hex()
		if !notified[ownerKey] {
			notified[ownerKey] = true
			e.hub.Create(ctx, other.OwnerID,
				fmt.Sprintf("A new report %q may match your item, check it", newTitle),
				notification.CategoryMatch)
		}
	}
}

func tokenize(title string) []string {
	var tokens []string
	for _, field := range strings.Fields(title) {
		if utf8.RuneCountInString(field) > minTokenLen {
			tokens = append(tokens, strings.ToLower(field))
		}
	}
	return tokens
}

func containsAny(title string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(title, token) {
			return true
		}
	}
	return false
}
