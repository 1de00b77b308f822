package complaint

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"CommunityPortal/internal/live"
	"CommunityPortal/internal/store"
)

// Service handles complaint submissions and views.
type Service struct {
	st     store.Store
	logger *zap.Logger
}

// NewService creates a new complaint service.
func NewService(st store.Store, logger *zap.Logger) *Service {
	return &Service{st: st, logger: logger}
}

// Submit files a new complaint for the caller.
func (s *Service) Submit(ctx context.Context, ownerID, subject, body string) (*Complaint, error) {
	if subject == "" {
		return nil, errors.New("subject is required")
	}

	complaint := Complaint{
		OwnerID:   ownerID,
		Subject:   subject,
		Body:      body,
		Status:    StatusSubmitted,
		CreatedAt: time.Now(),
	}
	id, err := s.st.Insert(ctx, Collection, complaint)
	if err != nil {
		return nil, err
	}
	complaint.ID = id
	return &complaint, nil
}

// ListByOwner returns the caller's complaints, newest first.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Complaint, error) {
	docs, err := s.st.ReadOnce(ctx, Collection, bson.M{"owner_id": ownerID})
	if err != nil {
		return nil, err
	}
	complaints, err := store.DecodeAll[Complaint](docs)
	if err != nil {
		return nil, err
	}
	return live.Project(complaints), nil
}

// WatchByOwner delivers the caller's live complaint projection. The caller
// owns the handle.
func (s *Service) WatchByOwner(ownerID string, onUpdate func([]Complaint)) *live.Handle {
	return live.Watch[Complaint](s.st, Collection, bson.M{"owner_id": ownerID}, s.logger, onUpdate)
}
