package testutils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nfrund/student-portal/internal/domain"
)

// CreateUser stores an active user with the given password. The hash uses
// the minimum bcrypt cost to keep tests fast.
func CreateUser(t testing.TB, users domain.UserRepository, username, email, password string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}
