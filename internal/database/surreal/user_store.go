package surreal

import (
	"context"
	"time"

	"github.com/surrealdb/surrealdb.go"

	"github.com/nfrund/student-portal/internal/database"
	"github.com/nfrund/student-portal/internal/domain"
)

const userFields = "num, username, email, password_hash, is_active, last_login, date_joined"

// userRow stores timestamps as unix seconds.
type userRow struct {
	Num          uint   `json:"num"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	IsActive     bool   `json:"is_active"`
	LastLogin    *int64 `json:"last_login"`
	DateJoined   int64  `json:"date_joined"`
}

func (r userRow) toDomain() *domain.User {
	u := &domain.User{
		ID:           r.Num,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		IsActive:     r.IsActive,
		DateJoined:   time.Unix(r.DateJoined, 0).UTC(),
	}
	if r.LastLogin != nil {
		at := time.Unix(*r.LastLogin, 0).UTC()
		u.LastLogin = &at
	}
	return u
}

// UserStore implements domain.UserRepository on SurrealDB.
type UserStore struct {
	conn *Connection
}

// NewUserStore creates a new UserStore.
func NewUserStore(conn *Connection) *UserStore {
	return &UserStore{conn: conn}
}

// Create inserts a user. The unique username index rejects duplicates.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if user.DateJoined.IsZero() {
		user.DateJoined = time.Now().UTC()
	}

	err := s.conn.WithConnection(ctx, func(db *surrealdb.DB) error {
		existing, err := QueryOne[userRow](ctx, db,
			"SELECT "+userFields+" FROM user WHERE username = $username",
			map[string]any{"username": user.Username})
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrUserAlreadyExists
		}

		id, err := nextID(ctx, db, "user")
		if err != nil {
			return err
		}
		if err := Execute(ctx, db,
			"CREATE type::thing('user', $id) SET num = $id, username = $username, email = $email, password_hash = $password_hash, is_active = $is_active, date_joined = $date_joined",
			map[string]any{
				"id":            id,
				"username":      user.Username,
				"email":         user.Email,
				"password_hash": user.PasswordHash,
				"is_active":     user.IsActive,
				"date_joined":   user.DateJoined.Unix(),
			}); err != nil {
			return err
		}
		user.ID = id
		return nil
	})
	return wrap(err, "create user")
}

// FindByID retrieves a user or domain.ErrNotFound.
func (s *UserStore) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	return s.findOne(ctx, "find user by id",
		"SELECT "+userFields+" FROM type::thing('user', $id)", map[string]any{"id": id})
}

// FindByUsername queries for a single user by username.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.findOne(ctx, "find user by username",
		"SELECT "+userFields+" FROM user WHERE username = $username", map[string]any{"username": username})
}

// FindByEmail returns the lowest-id user with the given email.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findOne(ctx, "find user by email",
		"SELECT "+userFields+" FROM user WHERE email = $email ORDER BY num", map[string]any{"email": email})
}

// UpdatePassword stores a new password hash.
func (s *UserStore) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	return s.update(ctx, "update password",
		"UPDATE type::thing('user', $id) SET password_hash = $value RETURN AFTER",
		map[string]any{"id": id, "value": passwordHash})
}

// UpdateLastLogin records a successful sign-in.
func (s *UserStore) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return s.update(ctx, "update last login",
		"UPDATE type::thing('user', $id) SET last_login = $value RETURN AFTER",
		map[string]any{"id": id, "value": at.Unix()})
}

func (s *UserStore) findOne(ctx context.Context, op, query string, params map[string]any) (*domain.User, error) {
	var row *userRow
	err := s.conn.WithConnection(ctx, func(db *surrealdb.DB) error {
		var err error
		row, err = QueryOne[userRow](ctx, db, query, params)
		return err
	})
	if err != nil {
		return nil, wrap(err, op)
	}
	if row == nil {
		return nil, database.NewDBError(domain.ErrNotFound, op)
	}
	return row.toDomain(), nil
}

func (s *UserStore) update(ctx context.Context, op, query string, params map[string]any) error {
	var rows []userRow
	err := s.conn.WithConnection(ctx, func(db *surrealdb.DB) error {
		var err error
		rows, err = Query[userRow](ctx, db, query, params)
		return err
	})
	if err != nil {
		return wrap(err, op)
	}
	if len(rows) == 0 {
		return database.NewDBError(domain.ErrNotFound, op)
	}
	return nil
}
