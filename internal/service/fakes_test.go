package service

import (
	"beachvolley/internal/db"
	"beachvolley/internal/entities"
	"beachvolley/internal/repository"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

var errStorage = errors.New("storage down")

// memStore is an in-memory implementation of every store interface.
type memStore struct {
	mu           sync.Mutex
	nextID       int
	reservations map[string]db.Reservation
	blocks       map[string]db.BlockedSlot
	config       map[string]string

	failList   bool
	failDelete map[string]bool
	deletes    []string
}

func newMemStore() *memStore {
	return &memStore{
		reservations: map[string]db.Reservation{},
		blocks:       map[string]db.BlockedSlot{},
		config:       map[string]string{},
		failDelete:   map[string]bool{},
	}
}

func (m *memStore) store() *repository.Store {
	return &repository.Store{Reservations: m, BlockedSlots: m, Config: m}
}

func (m *memStore) CreateReservation(_ context.Context, res *db.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if res.ID == "" {
		m.nextID++
		res.ID = fmt.Sprintf("res-%d", m.nextID)
	}
	m.reservations[res.ID] = *res
	return nil
}

func (m *memStore) ListReservations(_ context.Context, date string) ([]db.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList {
		return nil, errStorage
	}
	out := []db.Reservation{}
	for _, r := range m.reservations {
		if date == "" || r.Date == date {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (m *memStore) GetReservation(_ context.Context, id string) (*db.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (m *memStore) DeleteReservation(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, id)
	if m.failDelete[id] {
		return false, errStorage
	}
	if _, ok := m.reservations[id]; !ok {
		return false, nil
	}
	delete(m.reservations, id)
	return true, nil
}

func (m *memStore) SetExternalEventID(_ context.Context, id, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.ExternalEventID = eventID
	m.reservations[id] = r
	return nil
}

func (m *memStore) CountConfirmed(_ context.Context, date, slot string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.reservations {
		if r.Date == date && r.Time == slot && r.Status == db.StatusConfirmed {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CountByDates(_ context.Context, dates []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := map[string]bool{}
	for _, d := range dates {
		want[d] = true
	}
	n := 0
	for _, r := range m.reservations {
		if want[r.Date] {
			n++
		}
	}
	return n, nil
}

func (m *memStore) UpcomingDates(_ context.Context, from string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, r := range m.reservations {
		if r.Date >= from && !seen[r.Date] {
			seen[r.Date] = true
			out = append(out, r.Date)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *memStore) ListBlockedSlots(_ context.Context, date string) ([]db.BlockedSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList {
		return nil, errStorage
	}
	out := []db.BlockedSlot{}
	for _, b := range m.blocks {
		if date == "" || b.Date == date {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date+out[i].Time < out[j].Date+out[j].Time })
	return out, nil
}

func (m *memStore) CountBlocked(_ context.Context, date, slot string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blocks[date+" "+slot]; ok {
		return 1, nil
	}
	return 0, nil
}

func (m *memStore) UpsertBlockedSlot(_ context.Context, slot *db.BlockedSlot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := slot.Date + " " + slot.Time
	if prev, ok := m.blocks[key]; ok {
		slot.CreatedAt = prev.CreatedAt
	} else {
		slot.CreatedAt = slot.UpdatedAt
	}
	m.blocks[key] = *slot
	return nil
}

func (m *memStore) DeleteBlockedSlot(_ context.Context, date, slot string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := date + " " + slot
	_, ok := m.blocks[key]
	delete(m.blocks, key)
	return ok, nil
}

func (m *memStore) GetConfig(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.config[key]
	if !ok {
		return "", repository.ErrNotFound
	}
	return v, nil
}

func (m *memStore) SetConfig(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config[key] = value
	return nil
}

func (m *memStore) SeedDefaults(_ context.Context, entries []db.ConfigEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		if _, ok := m.config[e.Key]; !ok {
			m.config[e.Key] = e.Value
		}
	}
	return nil
}

// fakeCalendar keeps events per date and mirrors created reservations.
type fakeCalendar struct {
	mu        sync.Mutex
	events    map[string][]entities.CalendarEvent
	nextID    int
	listErr   error
	createErr error
	deleted   []string
}

func newFakeCalendar() *fakeCalendar {
	return &fakeCalendar{events: map[string][]entities.CalendarEvent{}}
}

func (f *fakeCalendar) add(date, label string, kind entities.EventKind, title string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("evt-%d", f.nextID)
	f.events[date] = append(f.events[date], entities.CalendarEvent{ID: id, Title: title, Time: label, Kind: kind})
	return id
}

func (f *fakeCalendar) ListEvents(_ context.Context, date string) ([]entities.CalendarEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]entities.CalendarEvent(nil), f.events[date]...), nil
}

func (f *fakeCalendar) CreateReservationEvent(_ context.Context, res db.Reservation) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.add(res.Date, res.Time, entities.EventReservation, "🏐 Beach Volley - "+res.Name), nil
}

func (f *fakeCalendar) DeleteEvent(_ context.Context, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, eventID)
	for date, events := range f.events {
		kept := events[:0]
		for _, e := range events {
			if e.ID != eventID {
				kept = append(kept, e)
			}
		}
		f.events[date] = kept
	}
	return nil
}

type fakeNotifier struct {
	booked    []db.Reservation
	cancelled []db.Reservation
}

func (n *fakeNotifier) NotifyBooking(res db.Reservation)      { n.booked = append(n.booked, res) }
func (n *fakeNotifier) NotifyCancellation(res db.Reservation) { n.cancelled = append(n.cancelled, res) }

func fixedNow() time.Time {
	return time.Date(2025, time.July, 14, 10, 0, 0, 0, time.UTC)
}

func rome() *time.Location {
	loc, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		panic(err)
	}
	return loc
}

type harness struct {
	mem          *memStore
	cal          *fakeCalendar
	notifier     *fakeNotifier
	config       *ConfigService
	availability *AvailabilityService
	reservations *ReservationService
	admin        *AdminService
}

// newHarness wires the services on in-memory fakes. A nil cal disables the
// remote calendar.
func newHarness(cal *fakeCalendar) *harness {
	mem := newMemStore()
	logger := zap.NewNop()
	var remote RemoteCalendar
	if cal != nil {
		remote = cal
	}
	notifier := &fakeNotifier{}
	config := NewConfigService(mem, logger)
	_ = config.Seed(context.Background())

	reservations := NewReservationService(mem.store(), config, remote, notifier, rome(), logger)
	reservations.now = fixedNow
	admin := NewAdminService(mem.store(), rome(), logger)
	admin.now = fixedNow

	return &harness{
		mem:          mem,
		cal:          cal,
		notifier:     notifier,
		config:       config,
		availability: NewAvailabilityService(mem.store(), config, remote, logger),
		reservations: reservations,
		admin:        admin,
	}
}
