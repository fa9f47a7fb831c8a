package domain

import "context"

type contextKey string

const userContextKey contextKey = "user"

// ContextWithUser returns a copy of ctx carrying the signed-in user.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the signed-in user, or nil.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey).(*User)
	return user
}
