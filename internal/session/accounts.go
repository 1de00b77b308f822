package session

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"CommunityPortal/internal/store"
)

// AccountCollection holds the portal's known accounts. The engine only reads
// it; account provisioning lives outside the core.
const AccountCollection = "accounts"

type Account struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	UserID string             `bson:"user_id"` // identity user id, matches notification recipients
	Name   string             `bson:"name"`
	Email  string             `bson:"email"`
	Role   string             `bson:"role"` // admin or user
}

// AccountRepository resolves broadcast audiences.
type AccountRepository struct {
	st store.Store
}

func NewAccountRepository(st store.Store) *AccountRepository {
	return &AccountRepository{st: st}
}

// FindByRole returns every account holding the role.
func (r *AccountRepository) FindByRole(ctx context.Context, role string) ([]Account, error) {
	docs, err := r.st.ReadOnce(ctx, AccountCollection, bson.M{"role": role})
	if err != nil {
		return nil, err
	}
	return store.DecodeAll[Account](docs)
}
