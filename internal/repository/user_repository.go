package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/abengl/fleet-management-api/internal/model"
)

// UserRepo reads and writes the `users` table.
type UserRepo struct{ db *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

const selectUser = "SELECT u.id, u.name, u.email, u.password, u.is_enabled, u.account_non_expired, " +
	"u.account_non_locked, u.credentials_non_expired, r.id AS `role.id`, r.role_enum AS `role.role_enum` " +
	"FROM users u JOIN roles r ON r.id = u.role_id"

// GetByEmail fetches a user and its role by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.db.GetContext(ctx, &u, selectUser+" WHERE u.email = ? LIMIT 1", normalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// ExistsByID reports whether a user row with the id exists.
func (r *UserRepo) ExistsByID(ctx context.Context, id uint64) (bool, error) {
	var ok bool
	err := r.db.GetContext(ctx, &ok, "SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", id)
	return ok, err
}

// Create inserts u and sets u.ID. u.Role.ID must reference a seeded role.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = normalizeEmail(u.Email)
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password, role_id, is_enabled, account_non_expired, account_non_locked, credentials_non_expired)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Name, u.Email, u.PasswordHash, u.Role.ID,
		u.Enabled, u.AccountNonExpired, u.AccountNonLocked, u.CredentialsNonExpired)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
