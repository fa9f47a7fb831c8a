package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nfrund/student-portal/internal/domain"
)

// Form messages.
const (
	MsgRequired           = "This field is required."
	MsgInvalidLogin       = "Invalid username or password."
	MsgUsernameTaken      = "A user with that username already exists."
	MsgInvalidUsername    = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	MsgInvalidEmail       = "Enter a valid email address."
	MsgOldPasswordInvalid = "Your old password was entered incorrectly. Please enter it again."
)

// MaxUsernameLength is the longest username accepted.
const MaxUsernameLength = 150

// dummyHash is compared against when the username does not exist so that
// unknown and known usernames take the same time to reject.
var dummyHash = mustHashPassword("timing-equaliser-password")

// RegisterInput is the submitted registration form.
type RegisterInput struct {
	Username  string `validate:"required,max=150,username"`
	Email     string `validate:"omitempty,email"`
	Password1 string
	Password2 string
}

// Service implements sign in, registration and password changes.
type Service struct {
	users domain.UserRepository
	now   func() time.Time
}

// NewService creates a new auth Service.
func NewService(users domain.UserRepository) *Service {
	return &Service{users: users, now: time.Now}
}

// Authenticate checks credentials and records the login. Unknown users,
// wrong passwords and inactive accounts all return
// domain.ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			CheckPassword(dummyHash, password)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !CheckPassword(user.PasswordHash, password) || !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}

	now := s.now().UTC().Truncate(time.Second)
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	user.LastLogin = &now
	return user, nil
}

// Register validates input and creates an active account. Validation
// failures come back as FieldErrors with a nil error.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, domain.FieldErrors, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	fe := domain.FieldErrors{}
	validateRegisterFields(in, fe)

	if in.Password1 == "" {
		fe.Add("password1", MsgRequired)
	}
	if in.Password2 == "" {
		fe.Add("password2", MsgRequired)
	}
	if !fe.Has("password1") && !fe.Has("password2") {
		validateNewPassword(in.Password1, in.Password2, in.Username, in.Email, "password2", fe)
	}

	if !fe.Has("username") {
		_, err := s.users.FindByUsername(ctx, in.Username)
		switch {
		case err == nil:
			fe.Add("username", MsgUsernameTaken)
		case !errors.Is(err, domain.ErrNotFound):
			return nil, nil, fmt.Errorf("failed to check username: %w", err)
		}
	}

	if fe.Any() {
		return nil, fe, nil
	}

	hash, err := HashPassword(in.Password1)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			fe.Add("username", MsgUsernameTaken)
			return nil, fe, nil
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.InfoContext(ctx, "User registered", "user_id", user.ID, "username", user.Username)
	return user, nil, nil
}

// CreateUser registers an account outside of the web form. Validation
// failures are returned as the error.
func (s *Service) CreateUser(ctx context.Context, username, email, password string) (*domain.User, error) {
	user, fe, err := s.Register(ctx, RegisterInput{
		Username:  username,
		Email:     email,
		Password1: password,
		Password2: password,
	})
	if err != nil {
		return nil, err
	}
	if fe.Any() {
		return nil, fe
	}
	return user, nil
}

// ChangePassword verifies the old password and stores the new one. On
// success user.PasswordHash holds the new hash.
func (s *Service) ChangePassword(ctx context.Context, user *domain.User, oldPassword, newPassword1, newPassword2 string) (domain.FieldErrors, error) {
	fe := domain.FieldErrors{}

	switch {
	case oldPassword == "":
		fe.Add("old_password", MsgRequired)
	case !CheckPassword(user.PasswordHash, oldPassword):
		fe.Add("old_password", MsgOldPasswordInvalid)
	}

	if err := s.setPassword(ctx, user, newPassword1, newPassword2, "new_password1", "new_password2", fe); err != nil {
		return nil, err
	}
	if fe.Any() {
		return fe, nil
	}
	slog.InfoContext(ctx, "Password changed", "user_id", user.ID)
	return nil, nil
}

// setPassword validates the new password pair into fe and persists the hash
// only when fe holds no errors at all.
func (s *Service) setPassword(ctx context.Context, user *domain.User, p1, p2, field1, field2 string, fe domain.FieldErrors) error {
	if p1 == "" {
		fe.Add(field1, MsgRequired)
	}
	if p2 == "" {
		fe.Add(field2, MsgRequired)
	}
	if !fe.Has(field1) && !fe.Has(field2) {
		validateNewPassword(p1, p2, user.Username, user.Email, field2, fe)
	}
	if fe.Any() {
		return nil
	}

	hash, err := HashPassword(p1)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	user.PasswordHash = hash
	return nil
}

func validateNewPassword(p1, p2, username, email, field string, fe domain.FieldErrors) {
	if p1 != p2 {
		fe.Add(field, MsgPasswordMismatch)
		return
	}
	for _, msg := range ValidatePassword(p2, username, email) {
		fe.Add(field, msg)
	}
}

func validateRegisterFields(in RegisterInput, fe domain.FieldErrors) {
	err := domain.Validator().Struct(in)
	if err == nil {
		return
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fe.Add(domain.NonFieldKey, err.Error())
		return
	}

	for _, ve := range verrs {
		switch ve.Field() {
		case "Username":
			switch ve.Tag() {
			case "required":
				fe.Add("username", MsgRequired)
			case "max":
				fe.Add("username", maxLengthMessage(MaxUsernameLength, len([]rune(in.Username))))
			default:
				fe.Add("username", MsgInvalidUsername)
			}
		case "Email":
			fe.Add("email", MsgInvalidEmail)
		}
	}
}

func maxLengthMessage(limit, got int) string {
	return "Ensure this value has at most " + strconv.Itoa(limit) +
		" characters (it has " + strconv.Itoa(got) + ")."
}
