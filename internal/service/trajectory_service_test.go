package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/mmcloughlin/geohash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abengl/fleet-management-api/internal/model"
)

func at(day, hour int) time.Time {
	return time.Date(2024, time.March, day, hour, 0, 0, 0, time.UTC)
}

func newFleet() *fakeFleet {
	return &fakeFleet{
		taxis: map[uint64]string{7: "CNCJ-2997", 8: "FNDF-2678"},
		trajectories: []model.Trajectory{
			{ID: 10, TaxiID: 7, Date: at(1, 9), Latitude: 39.98, Longitude: 116.30},
			{ID: 11, TaxiID: 7, Date: at(1, 8), Latitude: 39.97, Longitude: 116.31},
			{ID: 12, TaxiID: 7, Date: at(2, 0), Latitude: 39.96, Longitude: 116.32},
			{ID: 13, TaxiID: 8, Date: at(1, 10), Latitude: 39.90, Longitude: 116.40},
		},
	}
}

func ptr(v uint64) *uint64 { return &v }

func TestTrajectoryService_GetTrajectories_Paging(t *testing.T) {
	fleet := newFleet()
	svc := NewTrajectoryService(fleet, fleet, time.Second)
	ctx := context.Background()

	all, err := svc.GetTrajectories(ctx, ptr(7), "01-03-2024", 0, 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, uint64(10), all[0].ID)
	assert.Equal(t, uint64(11), all[1].ID)

	first, err := svc.GetTrajectories(ctx, ptr(7), "01-03-2024", 0, 1)
	require.NoError(t, err)
	second, err := svc.GetTrajectories(ctx, ptr(7), "01-03-2024", 1, 1)
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, all[0], first[0])
	assert.Equal(t, all[1], second[0])

	past, err := svc.GetTrajectories(ctx, ptr(7), "01-03-2024", 5, 10)
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestTrajectoryService_GetTrajectories_Validation(t *testing.T) {
	fleet := newFleet()
	svc := NewTrajectoryService(fleet, fleet, time.Second)

	tests := []struct {
		name   string
		taxiID *uint64
		date   string
		page   int
		limit  int
		want   error
	}{
		{name: "missing taxi id", taxiID: nil, date: "01-03-2024", limit: 10, want: ErrInvalidParameter},
		{name: "unknown taxi", taxiID: ptr(99), date: "01-03-2024", limit: 10, want: ErrNotFound},
		{name: "missing date", taxiID: ptr(7), date: "", limit: 10, want: ErrInvalidParameter},
		{name: "malformed date", taxiID: ptr(7), date: "2024-13-40", limit: 10, want: ErrInvalidFormat},
		{name: "negative page", taxiID: ptr(7), date: "01-03-2024", page: -1, limit: 10, want: ErrInvalidParameter},
		{name: "zero limit", taxiID: ptr(7), date: "01-03-2024", limit: 0, want: ErrInvalidParameter},
		{name: "limit above maximum", taxiID: ptr(7), date: "01-03-2024", limit: MaxPageSize + 1, want: ErrInvalidParameter},
		{name: "offset overflow", taxiID: ptr(7), date: "01-03-2024", page: math.MaxInt / 5, limit: 10, want: ErrInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetTrajectories(context.Background(), tt.taxiID, tt.date, tt.page, tt.limit)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTrajectoryService_UnknownTaxiBeforeDateFormat(t *testing.T) {
	fleet := newFleet()
	svc := NewTrajectoryService(fleet, fleet, time.Second)

	_, err := svc.GetExportData(context.Background(), ptr(99), "not-a-date")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTrajectoryService_GetExportData(t *testing.T) {
	fleet := newFleet()
	svc := NewTrajectoryService(fleet, fleet, time.Second)
	ctx := context.Background()

	rows, err := svc.GetExportData(ctx, ptr(7), "01-03-2024")
	require.NoError(t, err)
	paged, err := svc.GetTrajectories(ctx, ptr(7), "01-03-2024", 0, 100)
	require.NoError(t, err)

	require.Len(t, rows, len(paged))
	for i := range rows {
		assert.Equal(t, paged[i].Date, rows[i].Date)
		assert.Equal(t, "CNCJ-2997", rows[i].Plate)
	}
}

func TestTrajectoryService_GetLatestTrajectories(t *testing.T) {
	fleet := newFleet()
	svc := NewTrajectoryService(fleet, fleet, time.Second)

	latest, err := svc.GetLatestTrajectories(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, latest, 2)

	assert.Equal(t, uint64(7), latest[0].TaxiID)
	assert.Equal(t, at(2, 0), latest[0].Date)
	assert.Equal(t, "CNCJ-2997", latest[0].Plate)
	assert.Equal(t, 39.96, latest[0].Latitude)
	assert.Equal(t, 116.32, latest[0].Longitude)
	assert.Equal(t, "wx4eqfmxu", latest[0].Geohash)

	lat, lng := geohash.DecodeCenter(latest[0].Geohash)
	assert.InDelta(t, 39.96, lat, 1e-4)
	assert.InDelta(t, 116.32, lng, 1e-4)

	_, err = svc.GetLatestTrajectories(context.Background(), 0, -3)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = svc.GetLatestTrajectories(context.Background(), math.MaxInt/5, 10)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	last, err := svc.GetLatestTrajectories(context.Background(), (math.MaxInt/MaxPageSize)-1, MaxPageSize)
	require.NoError(t, err)
	assert.Empty(t, last)
}

func TestTrajectoryService_ListTaxis(t *testing.T) {
	fleet := newFleet()
	svc := NewTrajectoryService(fleet, fleet, time.Second)

	taxis, err := svc.ListTaxis(context.Background(), "cncj", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []TaxiRecord{{ID: 7, Plate: "CNCJ-2997"}}, taxis)
}

func TestTrajectoryService_StoreTimeout(t *testing.T) {
	fleet := newFleet()
	fleet.err = context.DeadlineExceeded
	svc := NewTrajectoryService(fleet, fleet, time.Second)

	_, err := svc.GetTrajectories(context.Background(), ptr(7), "01-03-2024", 0, 10)
	assert.ErrorIs(t, err, ErrTimeout)

	fleet.err = errors.New("connection refused")
	_, err = svc.GetTrajectories(context.Background(), ptr(7), "01-03-2024", 0, 10)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("01-03-2024")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), d)

	for _, bad := range []string{"2024-03-01", "1-3-2024", "31-02-2024", "01/03/2024"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidFormat, bad)
	}
}
