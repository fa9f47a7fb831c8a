package domain

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// validatorInstance is a package-level validator instance.
// Using a single instance is more efficient as it caches struct information.
var validatorInstance = validator.New()

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

func init() {
	_ = validatorInstance.RegisterValidation("username", validateUsername)
}

// validateUsername accepts letters, digits and @/./+/-/_ only.
func validateUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

// Validator exposes the shared instance to packages that validate their own DTOs.
func Validator() *validator.Validate {
	return validatorInstance
}
