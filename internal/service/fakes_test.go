package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gopkg.in/gomail.v2"

	"github.com/abengl/fleet-management-api/internal/model"
	"github.com/abengl/fleet-management-api/internal/queue"
	"github.com/abengl/fleet-management-api/internal/repository"
)

func nullLogger() logrus.FieldLogger {
	l, _ := test.NewNullLogger()
	return l
}

type fakeUserStore struct {
	byEmail   map[string]model.User
	created   []model.User
	createErr error
	nextID    uint64
}

func newFakeUserStore(users ...model.User) *fakeUserStore {
	s := &fakeUserStore{byEmail: map[string]model.User{}, nextID: 100}
	for _, u := range users {
		s.byEmail[u.Email] = u
	}
	return s
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	u, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (s *fakeUserStore) Create(_ context.Context, u *model.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.nextID++
	u.ID = s.nextID
	s.created = append(s.created, *u)
	s.byEmail[u.Email] = *u
	return nil
}

type fakeRoleStore map[model.RoleKind]model.Role

func (s fakeRoleStore) GetByKind(_ context.Context, kind model.RoleKind) (model.Role, error) {
	r, ok := s[kind]
	if !ok {
		return model.Role{}, repository.ErrRoleNotFound
	}
	return r, nil
}

// fakeFleet is an in-memory taxi and trajectory store with the same
// filter, order and pagination rules as the SQL repositories.
type fakeFleet struct {
	taxis        map[uint64]string
	trajectories []model.Trajectory
	err          error
}

func (f *fakeFleet) ExistsByID(_ context.Context, id uint64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.taxis[id]
	return ok, nil
}

func (f *fakeFleet) FindByPlate(_ context.Context, plate string, page model.Page) ([]model.Taxi, error) {
	var all []model.Taxi
	for id, p := range f.taxis {
		if strings.Contains(strings.ToLower(p), strings.ToLower(plate)) {
			all = append(all, model.Taxi{ID: id, Plate: p})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, page), nil
}

func (f *fakeFleet) FindAllByTaxiAndDate(ctx context.Context, taxiID uint64, day time.Time) ([]model.Trajectory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	out := []model.Trajectory{}
	for _, t := range f.trajectories {
		if t.TaxiID == taxiID && !t.Date.Before(from) && t.Date.Before(to) {
			t.Plate = f.taxis[t.TaxiID]
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeFleet) FindByTaxiAndDate(ctx context.Context, taxiID uint64, day time.Time, page model.Page) ([]model.Trajectory, error) {
	all, err := f.FindAllByTaxiAndDate(ctx, taxiID, day)
	if err != nil {
		return nil, err
	}
	return paginate(all, page), nil
}

func (f *fakeFleet) FindLatestPerTaxi(_ context.Context, page model.Page) ([]model.Trajectory, error) {
	latest := map[uint64]model.Trajectory{}
	for _, t := range f.trajectories {
		cur, ok := latest[t.TaxiID]
		if !ok || t.Date.After(cur.Date) || (t.Date.Equal(cur.Date) && t.ID > cur.ID) {
			t.Plate = f.taxis[t.TaxiID]
			latest[t.TaxiID] = t
		}
	}
	out := make([]model.Trajectory, 0, len(latest))
	for _, t := range latest {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TaxiID < out[j].TaxiID })
	return paginate(out, page), nil
}

func paginate[T any](all []T, page model.Page) []T {
	start := page.Offset()
	if start >= len(all) {
		return []T{}
	}
	end := start + page.Size
	if end > len(all) || end < start {
		end = len(all)
	}
	return all[start:end]
}

type fakeTransport struct {
	mu    sync.Mutex
	sent  []*gomail.Message
	err   error
	delay time.Duration
}

func (t *fakeTransport) DialAndSend(msgs ...*gomail.Message) error {
	if t.delay > 0 {
		time.Sleep(t.delay)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return t.err
	}
	t.sent = append(t.sent, msgs...)
	return nil
}

type fakePublisher struct {
	events []queue.ExportRequestedEvent
	err    error
}

func (p *fakePublisher) PublishExportRequested(_ context.Context, ev queue.ExportRequestedEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}
