package usecase

import (
	"context"
	"sort"
	"sync"

	"shareit/internal/data/entity"
	"shareit/internal/data/repository"
	"shareit/pkg/events"
)

// memStore backs the three repositories with maps and keeps the
// conditional status update atomic the way the SQL guard does
type memStore struct {
	mu       sync.Mutex
	users    map[int64]entity.User
	items    map[int64]entity.Item
	bookings map[int64]entity.Booking
	nextID   int64
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[int64]entity.User{},
		items:    map[int64]entity.Item{},
		bookings: map[int64]entity.Booking{},
	}
}

func (s *memStore) addUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *memStore) addItem(i entity.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[i.ID] = i
}

func (s *memStore) addBooking(b entity.Booking) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	b.ID = s.nextID
	s.bookings[b.ID] = b
	return b.ID
}

func (s *memStore) bookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

func (s *memStore) status(id int64) entity.BookingStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookings[id].Status
}

// repository assembles a Repository whose transactions run inline
func (s *memStore) repository() *repository.Repository {
	repo := &repository.Repository{
		User:    memUsers{s},
		Item:    memItems{s},
		Booking: memBookings{s},
	}
	repo.Transactor = inlineTransactor{repo: repo}
	return repo
}

type inlineTransactor struct {
	repo *repository.Repository
}

func (t inlineTransactor) ExecuteTransaction(ctx context.Context, fn repository.TxFunc) error {
	return fn(ctx, t.repo)
}

type memUsers struct{ s *memStore }

func (m memUsers) Exists(_ context.Context, id int64) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	_, ok := m.s.users[id]
	return ok, nil
}

func (m memUsers) FindByID(_ context.Context, id int64) (*entity.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

type memItems struct{ s *memStore }

func (m memItems) FindByID(_ context.Context, id int64) (*entity.Item, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	i, ok := m.s.items[id]
	if !ok {
		return nil, nil
	}
	return &i, nil
}

func (m memItems) FindByIDForShare(ctx context.Context, id int64) (*entity.Item, error) {
	return m.FindByID(ctx, id)
}

func (m memItems) FindByOwnerID(_ context.Context, ownerID int64, page repository.Page) ([]*entity.Item, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*entity.Item
	for _, i := range m.s.items {
		if i.OwnerID == ownerID {
			item := i
			out = append(out, &item)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return window(out, page), nil
}

type memBookings struct{ s *memStore }

func (m memBookings) Create(_ context.Context, b *entity.Booking) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.nextID++
	b.ID = m.s.nextID
	m.s.bookings[b.ID] = *b
	return nil
}

func (m memBookings) FindByID(_ context.Context, id int64) (*entity.Booking, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	b, ok := m.s.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (m memBookings) FindFiltered(_ context.Context, filter repository.BookingFilter, page repository.Page) ([]*entity.Booking, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*entity.Booking
	for _, b := range m.s.bookings {
		booking := b
		if filter.Matches(&booking) {
			out = append(out, &booking)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Start.Equal(out[b].Start) {
			return out[a].ID > out[b].ID
		}
		return out[a].Start.After(out[b].Start)
	})
	return window(out, page), nil
}

func (m memBookings) UpdateStatusIfWaiting(_ context.Context, id int64, status entity.BookingStatus) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	b, ok := m.s.bookings[id]
	if !ok || b.Status != entity.BookingStatusWaiting {
		return false, nil
	}
	b.Status = status
	m.s.bookings[id] = b
	return true, nil
}

func (m memBookings) FindApprovedByItemIDs(_ context.Context, ownerID int64, itemIDs []int64) ([]*entity.Booking, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	wanted := map[int64]bool{}
	for _, id := range itemIDs {
		wanted[id] = true
	}
	var out []*entity.Booking
	for _, b := range m.s.bookings {
		if b.Item.OwnerID == ownerID && wanted[b.Item.ID] && b.Status == entity.BookingStatusApproved {
			booking := b
			out = append(out, &booking)
		}
	}
	return out, nil
}

func window[T any](all []T, page repository.Page) []T {
	if page.Offset >= len(all) {
		return nil
	}
	all = all[page.Offset:]
	if page.Limit > 0 && page.Limit < len(all) {
		all = all[:page.Limit]
	}
	return all
}

// Mock booking repository for error paths
type mockBookingRepository struct {
	calls                     int
	createFunc                func(ctx context.Context, b *entity.Booking) error
	findByIDFunc              func(ctx context.Context, id int64) (*entity.Booking, error)
	findFilteredFunc          func(ctx context.Context, f repository.BookingFilter, p repository.Page) ([]*entity.Booking, error)
	updateStatusIfWaitingFunc func(ctx context.Context, id int64, status entity.BookingStatus) (bool, error)
}

func (m *mockBookingRepository) Create(ctx context.Context, b *entity.Booking) error {
	m.calls++
	if m.createFunc != nil {
		return m.createFunc(ctx, b)
	}
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id int64) (*entity.Booking, error) {
	m.calls++
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockBookingRepository) FindFiltered(ctx context.Context, f repository.BookingFilter, p repository.Page) ([]*entity.Booking, error) {
	m.calls++
	if m.findFilteredFunc != nil {
		return m.findFilteredFunc(ctx, f, p)
	}
	return nil, nil
}

func (m *mockBookingRepository) UpdateStatusIfWaiting(ctx context.Context, id int64, status entity.BookingStatus) (bool, error) {
	m.calls++
	if m.updateStatusIfWaitingFunc != nil {
		return m.updateStatusIfWaitingFunc(ctx, id, status)
	}
	return true, nil
}

func (m *mockBookingRepository) FindApprovedByItemIDs(context.Context, int64, []int64) ([]*entity.Booking, error) {
	m.calls++
	return nil, nil
}

type mockUserRepository struct {
	calls      int
	existsFunc func(ctx context.Context, id int64) (bool, error)
}

func (m *mockUserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	m.calls++
	if m.existsFunc != nil {
		return m.existsFunc(ctx, id)
	}
	return true, nil
}

func (m *mockUserRepository) FindByID(_ context.Context, id int64) (*entity.User, error) {
	m.calls++
	return &entity.User{ID: id}, nil
}

// recordingPublisher keeps published events; err makes every Publish fail
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.BookingEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}
