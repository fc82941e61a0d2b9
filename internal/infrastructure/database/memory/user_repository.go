// Package memory keeps user records in process memory. It backs local
// development (DB_DRIVER=memory) and end-to-end tests.
package memory

import (
	"context"
	"sync"

	"user-auth-service/internal/domain/user"
)

type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*user.User
	byEmail map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]*user.User),
		byEmail: make(map[string]string),
	}
}

// Create inserts u if neither its email nor its id is taken. The check and the
// insert happen under one lock, so concurrent creates cannot both succeed.
func (r *UserRepository) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[u.Email]; ok {
		return user.ErrUserAlreadyExists
	}
	if _, ok := r.byID[u.UserID]; ok {
		return user.ErrUserAlreadyExists
	}

	r.byID[u.UserID] = clone(u)
	r.byEmail[u.Email] = u.UserID
	return nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *UserRepository) GetByUserID(_ context.Context, userID string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[userID]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return clone(u), nil
}

func (r *UserRepository) Update(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[u.UserID]
	if !ok {
		return user.ErrUserNotFound
	}

	next := clone(u)
	next.Email = current.Email
	next.CreatedAt = current.CreatedAt
	r.byID[u.UserID] = next
	return nil
}

func (r *UserRepository) Health(context.Context) error {
	return nil
}

func (r *UserRepository) Close(context.Context) error {
	return nil
}

// clone copies u including the values behind its pointer fields.
func clone(u *user.User) *user.User {
	cp := *u
	if u.RefreshToken != nil {
		v := *u.RefreshToken
		cp.RefreshToken = &v
	}
	if u.OTP != nil {
		v := *u.OTP
		cp.OTP = &v
	}
	if u.OTPExpiry != nil {
		v := *u.OTPExpiry
		cp.OTPExpiry = &v
	}
	return &cp
}
