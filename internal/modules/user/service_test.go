package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterUser(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())

	u, err := svc.RegisterUser(ctx, RegisterRequest{Email: " Ops@Example.com ", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", u.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("correct-horse")))

	got, err := svc.GetUser(ctx, u.ID.String())
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = svc.GetUserByEmail(ctx, "OPS@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.RegisterUser(ctx, RegisterRequest{Email: "ops@example.com", Password: "another-one"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.RegisterUser(ctx, RegisterRequest{Email: "not-an-email", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrInvalidUser)

	_, err = svc.RegisterUser(ctx, RegisterRequest{Email: "short@example.com", Password: "short"})
	assert.ErrorIs(t, err, ErrInvalidUser)

	_, err = svc.GetUser(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())

	u, created, err := svc.EnsureAdmin(ctx, RegisterRequest{Email: "root@example.com", Password: "bootstrap-pass"})
	require.NoError(t, err)
	require.True(t, created)
	assert.Equal(t, "root@example.com", u.Email)

	_, created, err = svc.EnsureAdmin(ctx, RegisterRequest{Email: "second@example.com", Password: "bootstrap-pass"})
	require.NoError(t, err)
	assert.False(t, created)
}
