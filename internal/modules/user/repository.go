package user

import "context"

// Repository persists administrators.
type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	CountUsers(ctx context.Context) (int, error)
}
