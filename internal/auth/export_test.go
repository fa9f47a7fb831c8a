package auth

import "golang.org/x/crypto/bcrypt"

func init() {
	hashCost = bcrypt.MinCost
}

// Ratio exposes the similarity measure to tests.
var Ratio = ratio

// MustHashPassword exposes the package-level hash helper to tests.
var MustHashPassword = mustHashPassword

// CommonPasswordCount reports how many entries the embedded list holds.
func CommonPasswordCount() int { return len(commonPasswords) }
