package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nfrund/student-portal/internal/domain"
)

// resetClaims binds a token to a user and to the state of that user's
// credentials when the token was issued.
type resetClaims struct {
	Fingerprint string `json:"fp"`
	jwt.RegisteredClaims
}

// TokenGenerator issues and checks password reset tokens. Tokens are never
// stored: a token stops validating once it expires or once the user's
// password, last login or email changes.
type TokenGenerator struct {
	secret  string
	timeout time.Duration
	now     func() time.Time
}

// NewTokenGenerator creates a generator whose tokens live for timeout.
func NewTokenGenerator(secret string, timeout time.Duration) *TokenGenerator {
	return &TokenGenerator{secret: secret, timeout: timeout, now: time.Now}
}

// WithClock returns a copy of g that reads the time from now.
func (g *TokenGenerator) WithClock(now func() time.Time) *TokenGenerator {
	clone := *g
	clone.now = now
	return &clone
}

// Make issues a token for user.
func (g *TokenGenerator) Make(user *domain.User) (string, error) {
	if user == nil {
		return "", errors.New("reset token requires a user")
	}

	issued := g.now()
	claims := resetClaims{
		Fingerprint: g.fingerprint(user),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(g.timeout)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(g.secret))
}

// Check reports whether token is a valid, unexpired token for user's
// current credentials.
func (g *TokenGenerator) Check(user *domain.User, token string) bool {
	if user == nil || token == "" {
		return false
	}

	claims := &resetClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return []byte(g.secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(g.now),
		jwt.WithExpirationRequired(),
		jwt.WithSubject(strconv.FormatUint(uint64(user.ID), 10)),
	)
	if err != nil {
		return false
	}
	return equalHash(claims.Fingerprint, g.fingerprint(user))
}

func (g *TokenGenerator) fingerprint(user *domain.User) string {
	login := ""
	if user.LastLogin != nil {
		login = strconv.FormatInt(user.LastLogin.Unix(), 10)
	}
	return keyedHash(g.secret, "reset:"+user.PasswordHash+"|"+login+"|"+user.Email)
}
