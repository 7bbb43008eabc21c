package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/abengl/fleet-management-api/internal/model"
)

// TrajectoryRepo reads the `trajectories` table. Day filters match every
// sample whose timestamp falls in [day, day+24h).
type TrajectoryRepo struct{ db *sqlx.DB }

func NewTrajectoryRepo(db *sqlx.DB) *TrajectoryRepo { return &TrajectoryRepo{db: db} }

const selectTrajectory = `SELECT t.id, t.taxi_id, x.plate, t.date, t.latitude, t.longitude
	FROM trajectories t JOIN taxis x ON x.id = t.taxi_id
	WHERE t.taxi_id = ? AND t.date >= ? AND t.date < ?
	ORDER BY t.id`

// FindByTaxiAndDate returns one page of a taxi's samples for a day, in
// insertion order.
func (r *TrajectoryRepo) FindByTaxiAndDate(ctx context.Context, taxiID uint64, day time.Time, page model.Page) ([]model.Trajectory, error) {
	from, to := dayBounds(day)
	out := []model.Trajectory{}
	if err := r.db.SelectContext(ctx, &out, selectTrajectory+" LIMIT ? OFFSET ?",
		taxiID, from, to, page.Size, page.Offset()); err != nil {
		return nil, err
	}
	return out, nil
}

// FindAllByTaxiAndDate is FindByTaxiAndDate without pagination.
func (r *TrajectoryRepo) FindAllByTaxiAndDate(ctx context.Context, taxiID uint64, day time.Time) ([]model.Trajectory, error) {
	from, to := dayBounds(day)
	out := []model.Trajectory{}
	if err := r.db.SelectContext(ctx, &out, selectTrajectory, taxiID, from, to); err != nil {
		return nil, err
	}
	return out, nil
}

// FindLatestPerTaxi returns each taxi's most recent sample ordered by taxi
// id. Samples sharing a timestamp are broken by the higher id.
func (r *TrajectoryRepo) FindLatestPerTaxi(ctx context.Context, page model.Page) ([]model.Trajectory, error) {
	const q = `SELECT id, taxi_id, plate, date, latitude, longitude FROM (
		SELECT t.id, t.taxi_id, x.plate, t.date, t.latitude, t.longitude,
		       ROW_NUMBER() OVER (PARTITION BY t.taxi_id ORDER BY t.date DESC, t.id DESC) AS rn
		FROM trajectories t JOIN taxis x ON x.id = t.taxi_id
	) ranked
	WHERE rn = 1
	ORDER BY taxi_id
	LIMIT ? OFFSET ?`
	out := []model.Trajectory{}
	if err := r.db.SelectContext(ctx, &out, q, page.Size, page.Offset()); err != nil {
		return nil, err
	}
	return out, nil
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 0, 1)
}
