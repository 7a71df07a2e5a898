package user

import "context"

// Service defines the interface for administrator management.
type Service interface {
	RegisterUser(ctx context.Context, req RegisterRequest) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	// EnsureAdmin creates the given administrator when no user exists yet.
	EnsureAdmin(ctx context.Context, req RegisterRequest) (*User, bool, error)
}
