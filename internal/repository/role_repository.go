package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/abengl/fleet-management-api/internal/model"
)

// RoleRepo reads the seeded `roles` table.
type RoleRepo struct{ db *sqlx.DB }

func NewRoleRepo(db *sqlx.DB) *RoleRepo { return &RoleRepo{db: db} }

// GetByKind returns the role row for kind, or ErrRoleNotFound.
func (r *RoleRepo) GetByKind(ctx context.Context, kind model.RoleKind) (model.Role, error) {
	var role model.Role
	err := r.db.GetContext(ctx, &role, "SELECT id, role_enum FROM roles WHERE role_enum = ? LIMIT 1", string(kind))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Role{}, ErrRoleNotFound
	}
	return role, err
}
