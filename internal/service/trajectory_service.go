package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mmcloughlin/geohash"

	"github.com/abengl/fleet-management-api/internal/model"
)

// DateLayout is the only accepted date format for trajectory queries (dd-MM-yyyy).
const DateLayout = "02-01-2006"

const geohashPrecision = 9

// MaxPageSize is the largest accepted limit on paginated queries.
const MaxPageSize = 1000

// TaxiStore is the taxi side of the trajectory store.
type TaxiStore interface {
	ExistsByID(ctx context.Context, id uint64) (bool, error)
	FindByPlate(ctx context.Context, plate string, page model.Page) ([]model.Taxi, error)
}

// TrajectoryStore queries stored trajectory samples.
type TrajectoryStore interface {
	FindByTaxiAndDate(ctx context.Context, taxiID uint64, day time.Time, page model.Page) ([]model.Trajectory, error)
	FindAllByTaxiAndDate(ctx context.Context, taxiID uint64, day time.Time) ([]model.Trajectory, error)
	FindLatestPerTaxi(ctx context.Context, page model.Page) ([]model.Trajectory, error)
}

// TrajectoryRecord is one sample of a taxi's trajectory.
type TrajectoryRecord struct {
	ID        uint64    `json:"id"`
	TaxiID    uint64    `json:"taxiId"`
	Date      time.Time `json:"date"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
}

// LatestPositionRecord is the most recent sample of one taxi.
type LatestPositionRecord struct {
	TaxiID    uint64    `json:"taxiId"`
	Plate     string    `json:"plate"`
	Date      time.Time `json:"date"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Geohash   string    `json:"geohash"`
}

// ExportRecord is one spreadsheet row of a trajectory export.
type ExportRecord struct {
	TaxiID    uint64    `json:"taxiId"`
	Plate     string    `json:"plate"`
	Date      time.Time `json:"date"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
}

// TaxiRecord is a taxi as listed by ListTaxis.
type TaxiRecord struct {
	ID    uint64 `json:"id"`
	Plate string `json:"plate"`
}

// TrajectoryService validates trajectory queries and maps stored samples to
// transfer records. All operations are read-only.
type TrajectoryService struct {
	taxis        TaxiStore
	trajectories TrajectoryStore
	timeout      time.Duration
}

func NewTrajectoryService(taxis TaxiStore, trajectories TrajectoryStore, timeout time.Duration) *TrajectoryService {
	if taxis == nil || trajectories == nil {
		panic("nil store passed to NewTrajectoryService")
	}
	return &TrajectoryService{taxis: taxis, trajectories: trajectories, timeout: timeout}
}

// ParseDate parses s with DateLayout.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: incorrect date value: %s", ErrInvalidFormat, s)
	}
	return d, nil
}

func pageOf(page, limit int) (model.Page, error) {
	if page < 0 {
		return model.Page{}, fmt.Errorf("%w: page must not be negative", ErrInvalidParameter)
	}
	if limit <= 0 || limit > MaxPageSize {
		return model.Page{}, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidParameter, MaxPageSize)
	}
	// page*limit becomes the SQL OFFSET and must not overflow
	if page > math.MaxInt/limit {
		return model.Page{}, fmt.Errorf("%w: page %d is out of range", ErrInvalidParameter, page)
	}
	return model.Page{Number: page, Size: limit}, nil
}

// ValidateQuery checks a (taxiId, date) pair and returns the parsed day.
// A nil taxiID or empty date is InvalidParameter, an unknown taxi is
// NotFound and an unparsable date is InvalidFormat.
func (s *TrajectoryService) ValidateQuery(ctx context.Context, taxiID *uint64, date string) (time.Time, error) {
	if taxiID == nil {
		return time.Time{}, fmt.Errorf("%w: missing taxiId value", ErrInvalidParameter)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	ok, err := s.taxis.ExistsByID(ctx, *taxiID)
	if err != nil {
		return time.Time{}, outboundErr(err)
	}
	if !ok {
		return time.Time{}, fmt.Errorf("%w: taxi ID %d not found", ErrNotFound, *taxiID)
	}
	if strings.TrimSpace(date) == "" {
		return time.Time{}, fmt.Errorf("%w: missing date value", ErrInvalidParameter)
	}
	return ParseDate(date)
}

// GetTrajectories returns one page of the taxi's samples on the date.
func (s *TrajectoryService) GetTrajectories(ctx context.Context, taxiID *uint64, date string, page, limit int) ([]TrajectoryRecord, error) {
	day, err := s.ValidateQuery(ctx, taxiID, date)
	if err != nil {
		return nil, err
	}
	p, err := pageOf(page, limit)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	rows, err := s.trajectories.FindByTaxiAndDate(ctx, *taxiID, day, p)
	if err != nil {
		return nil, outboundErr(err)
	}
	out := make([]TrajectoryRecord, 0, len(rows))
	for _, t := range rows {
		out = append(out, TrajectoryRecord{ID: t.ID, TaxiID: t.TaxiID, Date: t.Date, Latitude: t.Latitude, Longitude: t.Longitude})
	}
	return out, nil
}

// GetLatestTrajectories returns one page of per-taxi latest positions.
func (s *TrajectoryService) GetLatestTrajectories(ctx context.Context, page, limit int) ([]LatestPositionRecord, error) {
	p, err := pageOf(page, limit)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	rows, err := s.trajectories.FindLatestPerTaxi(ctx, p)
	if err != nil {
		return nil, outboundErr(err)
	}
	out := make([]LatestPositionRecord, 0, len(rows))
	for _, t := range rows {
		out = append(out, LatestPositionRecord{
			TaxiID:    t.TaxiID,
			Plate:     t.Plate,
			Date:      t.Date,
			Latitude:  t.Latitude,
			Longitude: t.Longitude,
			Geohash:   geohash.EncodeWithPrecision(t.Latitude, t.Longitude, geohashPrecision),
		})
	}
	return out, nil
}

// GetExportData returns every sample of the taxi on the date.
func (s *TrajectoryService) GetExportData(ctx context.Context, taxiID *uint64, date string) ([]ExportRecord, error) {
	day, err := s.ValidateQuery(ctx, taxiID, date)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	rows, err := s.trajectories.FindAllByTaxiAndDate(ctx, *taxiID, day)
	if err != nil {
		return nil, outboundErr(err)
	}
	out := make([]ExportRecord, 0, len(rows))
	for _, t := range rows {
		out = append(out, ExportRecord{TaxiID: t.TaxiID, Plate: t.Plate, Date: t.Date, Latitude: t.Latitude, Longitude: t.Longitude})
	}
	return out, nil
}

// ListTaxis searches taxis by plate fragment.
func (s *TrajectoryService) ListTaxis(ctx context.Context, plate string, page, limit int) ([]TaxiRecord, error) {
	p, err := pageOf(page, limit)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	taxis, err := s.taxis.FindByPlate(ctx, plate, p)
	if err != nil {
		return nil, outboundErr(err)
	}
	out := make([]TaxiRecord, 0, len(taxis))
	for _, t := range taxis {
		out = append(out, TaxiRecord{ID: t.ID, Plate: t.Plate})
	}
	return out, nil
}
