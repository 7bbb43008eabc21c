package repository

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/abengl/fleet-management-api/internal/model"
)

// TaxiRepo reads the `taxis` table.
type TaxiRepo struct{ db *sqlx.DB }

func NewTaxiRepo(db *sqlx.DB) *TaxiRepo { return &TaxiRepo{db: db} }

// ExistsByID reports whether a taxi with the id exists.
func (r *TaxiRepo) ExistsByID(ctx context.Context, id uint64) (bool, error) {
	var ok bool
	err := r.db.GetContext(ctx, &ok, "SELECT EXISTS(SELECT 1 FROM taxis WHERE id = ?)", id)
	return ok, err
}

// FindByPlate returns taxis whose plate contains the fragment, ignoring
// case, ordered by id. An empty fragment matches every taxi.
func (r *TaxiRepo) FindByPlate(ctx context.Context, plate string, page model.Page) ([]model.Taxi, error) {
	out := []model.Taxi{}
	err := r.db.SelectContext(ctx, &out,
		`SELECT id, plate FROM taxis WHERE LOWER(plate) LIKE ? ORDER BY id LIMIT ? OFFSET ?`,
		containsPattern(plate), page.Size, page.Offset())
	if err != nil {
		return nil, err
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(fragment string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(fragment))) + "%"
}
