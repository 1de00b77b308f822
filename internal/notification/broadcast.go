package notification

import (
	"context"

	"go.uber.org/zap"

	"CommunityPortal/internal/config"
	"CommunityPortal/internal/session"
)

// BroadcastService fans an admin announcement out to every account holding a
// role, one notification per recipient. There is no batch primitive behind
// this: each delivery is an independent write, and one recipient's failure
// never blocks the others.
type BroadcastService struct {
	hub      *Hub
	accounts *session.AccountRepository
	email    *config.EmailService
	logger   *zap.Logger
}

// NewBroadcastService creates a new BroadcastService.
func NewBroadcastService(hub *Hub, accounts *session.AccountRepository, email *config.EmailService, logger *zap.Logger) *BroadcastService {
	return &BroadcastService{hub: hub, accounts: accounts, email: email, logger: logger}
}

// Broadcast delivers the message to every account with the given role and
// returns how many recipients were targeted. Each recipient also gets a
// best-effort email copy; an email failure is logged and the loop continues.
func (s *BroadcastService) Broadcast(ctx context.Context, role, message string) (int, error) {
	audience, err := s.accounts.FindByRole(ctx, role)
	if err != nil {
		return 0, err
	}
	for _, account := range audience {
		s.hub.Create(ctx, account.UserID, message, CategoryInfo)
		if !s.email.Enabled() || account.Email == "" {
			continue
		}
		if err := s.email.Send(account.Email, "Community portal announcement", message); err != nil {
			s.logger.Warn("broadcast email failed",
				zap.String("recipient", account.UserID), zap.Error(err))
		}
	}
	return len(audience), nil
}
