package database

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/nfrund/student-portal/internal/domain"
)

// UserStore is the gorm implementation of domain.UserRepository.
type UserStore struct {
	db *gorm.DB
}

// NewUserStore creates a new UserStore.
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a user. A taken username yields domain.ErrUserAlreadyExists.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	var existing int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).Where("username = ?", user.Username).Count(&existing).Error; err != nil {
		return wrap(err, "check username")
	}
	if existing > 0 {
		return NewDBError(domain.ErrUserAlreadyExists, "create user")
	}
	return wrap(s.db.WithContext(ctx).Create(user).Error, "create user")
}

// FindByID retrieves a user or domain.ErrNotFound.
func (s *UserStore) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, wrap(err, "find user by id")
	}
	return &user, nil
}

// FindByUsername queries for a single user by username.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, wrap(err, "find user by username")
	}
	return &user, nil
}

// FindByEmail returns the first user, by id, with the given email.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).Order("id").First(&user).Error; err != nil {
		return nil, wrap(err, "find user by email")
	}
	return &user, nil
}

// UpdatePassword stores a new password hash.
func (s *UserStore) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	return s.updateColumn(ctx, id, "password_hash", passwordHash, "update password")
}

// UpdateLastLogin records a successful sign-in.
func (s *UserStore) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return s.updateColumn(ctx, id, "last_login", at.UTC(), "update last login")
}

func (s *UserStore) updateColumn(ctx context.Context, id uint, column string, value any, op string) error {
	res := s.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return wrap(res.Error, op)
	}
	if res.RowsAffected == 0 {
		return wrap(gorm.ErrRecordNotFound, op)
	}
	return nil
}
