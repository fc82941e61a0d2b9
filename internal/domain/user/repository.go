package user

import (
	"context"
)

//go:generate mockgen -source=repository.go -destination=../../mocks/user_repository_mock.go -package=mocks

// Repository defines the interface for user record storage.
// Implementations must enforce uniqueness of Email and UserID in the store
// and report a violation as ErrUserAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUserID(ctx context.Context, userID string) (*User, error)
	// Update replaces the mutable fields of the record identified by user.UserID.
	Update(ctx context.Context, user *User) error
}
