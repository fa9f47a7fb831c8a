package auth_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/student-portal/internal/auth"
	"github.com/nfrund/student-portal/internal/database"
	"github.com/nfrund/student-portal/internal/domain"
	"github.com/nfrund/student-portal/internal/testutils"
)

const goodPassword = "s3cure-Passphrase"

func newService(t *testing.T) (*auth.Service, *database.UserStore) {
	t.Helper()
	users := database.NewUserStore(testutils.NewTestDB(t))
	return auth.NewService(users), users
}

func TestRegister(t *testing.T) {
	svc, users := newService(t)
	ctx := context.Background()

	user, fe, err := svc.Register(ctx, auth.RegisterInput{
		Username:  "alice",
		Email:     "alice@example.com",
		Password1: goodPassword,
		Password2: goodPassword,
	})
	require.NoError(t, err)
	require.Nil(t, fe)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, goodPassword, user.PasswordHash)

	stored, err := users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(stored.PasswordHash, goodPassword))

	tests := []struct {
		name  string
		in    auth.RegisterInput
		field string
		msg   string
	}{
		{"missing username", auth.RegisterInput{Password1: goodPassword, Password2: goodPassword}, "username", auth.MsgRequired},
		{"taken username", auth.RegisterInput{Username: "alice", Password1: goodPassword, Password2: goodPassword}, "username", auth.MsgUsernameTaken},
		{"bad username", auth.RegisterInput{Username: "bad name!", Password1: goodPassword, Password2: goodPassword}, "username", auth.MsgInvalidUsername},
		{"long username", auth.RegisterInput{Username: strings.Repeat("a", 151), Password1: goodPassword, Password2: goodPassword}, "username", "Ensure this value has at most 150 characters (it has 151)."},
		{"bad email", auth.RegisterInput{Username: "bob", Email: "nope", Password1: goodPassword, Password2: goodPassword}, "email", auth.MsgInvalidEmail},
		{"missing password", auth.RegisterInput{Username: "bob", Password2: goodPassword}, "password1", auth.MsgRequired},
		{"mismatch", auth.RegisterInput{Username: "bob", Password1: goodPassword, Password2: goodPassword + "x"}, "password2", auth.MsgPasswordMismatch},
		{"weak", auth.RegisterInput{Username: "bob", Password1: "12345678", Password2: "12345678"}, "password2", auth.MsgPasswordCommon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, fe, err := svc.Register(ctx, tt.in)
			require.NoError(t, err)
			assert.Nil(t, user)
			assert.Contains(t, fe[tt.field], tt.msg)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	svc, users := newService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "alice", "alice@example.com", goodPassword)
	require.NoError(t, err)

	t.Run("success records last login", func(t *testing.T) {
		user, err := svc.Authenticate(ctx, "alice", goodPassword)
		require.NoError(t, err)
		require.NotNil(t, user.LastLogin)

		stored, err := users.FindByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.LastLogin)
		assert.True(t, user.LastLogin.Equal(*stored.LastLogin))
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "alice", "wrong")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "nobody", goodPassword)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("inactive user", func(t *testing.T) {
		hash, err := auth.HashPassword(goodPassword)
		require.NoError(t, err)
		require.NoError(t, users.Create(ctx, &domain.User{Username: "ghost", PasswordHash: hash, IsActive: false}))

		_, err = svc.Authenticate(ctx, "ghost", goodPassword)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestCreateUser_ReturnsFieldErrors(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.CreateUser(context.Background(), "alice", "", "short")
	var fe domain.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe["password2"], auth.MsgPasswordTooShort)
}

func TestChangePassword(t *testing.T) {
	svc, users := newService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "alice", "", goodPassword)
	require.NoError(t, err)
	const newPassword = "another-Passphrase9"

	t.Run("wrong old password keeps the hash", func(t *testing.T) {
		before := user.PasswordHash
		fe, err := svc.ChangePassword(ctx, user, "wrong", newPassword, newPassword)
		require.NoError(t, err)
		assert.Equal(t, []string{auth.MsgOldPasswordInvalid}, fe["old_password"])
		assert.Equal(t, before, user.PasswordHash)
	})

	t.Run("mismatch", func(t *testing.T) {
		fe, err := svc.ChangePassword(ctx, user, goodPassword, newPassword, "different-Passphrase9")
		require.NoError(t, err)
		assert.Equal(t, []string{auth.MsgPasswordMismatch}, fe["new_password2"])
	})

	t.Run("success", func(t *testing.T) {
		fe, err := svc.ChangePassword(ctx, user, goodPassword, newPassword, newPassword)
		require.NoError(t, err)
		assert.Nil(t, fe)

		stored, err := users.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, auth.CheckPassword(stored.PasswordHash, newPassword))
		assert.Equal(t, stored.PasswordHash, user.PasswordHash)
	})
}
