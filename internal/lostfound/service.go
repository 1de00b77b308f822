package lostfound

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"CommunityPortal/internal/live"
	"CommunityPortal/internal/matching"
	"CommunityPortal/internal/store"
)

// Service handles lost-and-found submissions and views.
type Service struct {
	st      store.Store
	matcher *matching.Engine
	logger  *zap.Logger
}

// NewService creates a new lost-and-found service.
func NewService(st store.Store, matcher *matching.Engine, logger *zap.Logger) *Service {
	return &Service{st: st, matcher: matcher, logger: logger}
}

// Submit creates a new report and runs it through the matching engine.
// Matching is a side effect: its notifications never fail the submission.
func (s *Service) Submit(ctx context.Context, ownerID, title, description, kind, location string) (*Item, error) {
	if title == "" {
		return nil, errors.New("title is required")
	}
	if kind != KindLost && kind != KindFound {
		return nil, errors.New("kind must be lost or found")
	}

	item := Item{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Kind:        kind,
		Location:    location,
		Status:      StatusPending,
		CreatedAt:   time.Now(),
	}
	id, err := s.st.Insert(ctx, Collection, item)
	if err != nil {
		return nil, err
	}
	item.ID = id

	s.matcher.OnSubmit(ctx, id, item.Title, ownerID)
	return &item, nil
}

// List returns a point-in-time view of every report, newest first.
func (s *Service) List(ctx context.Context) ([]Item, error) {
	docs, err := s.st.ReadOnce(ctx, Collection, bson.M{})
	if err != nil {
		return nil, err
	}
	items, err := store.DecodeAll[Item](docs)
	if err != nil {
		return nil, err
	}
	return live.Project(items), nil
}

// Watch delivers the live projection of every report. The caller owns the
// handle.
func (s *Service) Watch(onUpdate func([]Item)) *live.Handle {
	return live.Watch[Item](s.st, Collection, bson.M{}, s.logger, onUpdate)
}
