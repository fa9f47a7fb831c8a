package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// hashCost is lowered by tests.
var hashCost = bcrypt.DefaultCost

// mustHashPassword is HashPassword for package-level values. It panics if
// the password cannot be hashed.
func mustHashPassword(password string) string {
	hash, err := HashPassword(password)
	if err != nil {
		panic("auth: cannot hash password: " + err.Error())
	}
	return hash
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the bcrypt hash.
func CheckPassword(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// SessionHash derives the value stored in the session alongside the user id.
// It changes whenever the password hash changes, which logs out every other
// session of that user.
func SessionHash(secret, passwordHash string) string {
	return keyedHash(secret, "session:"+passwordHash)
}

func keyedHash(secret, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

func equalHash(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}
