package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/pitch_booking/internal/model"
	"github.com/Freeeeeet/pitch_booking/internal/repository"
	"go.uber.org/zap"
)

// memStore хранилище в памяти для тестов сервиса.
// RunInTx держит txMu на всё время функции, как блокировка строки поля в postgres.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	nextID   int64
	bookings map[int64]*model.Booking
	payments map[int64][]*model.Payment
	fields   map[int64]*model.Field
	cfg      *model.PriceConfig
	users    map[int64]*model.User

	createErr error
}

func newMemStore() *memStore {
	return &memStore{
		bookings: make(map[int64]*model.Booking),
		payments: make(map[int64][]*model.Payment),
		fields: map[int64]*model.Field{
			1: {ID: 1, Name: "Поле 1", IsActive: true},
			2: {ID: 2, Name: "Поле 2", IsActive: true},
			3: {ID: 3, Name: "Закрытое поле", IsActive: false},
		},
		cfg: &model.PriceConfig{
			ID:                      1,
			PricePerHour:            600,
			PricePerHalfHour:        300,
			DaytimePricePerHour:     400,
			DaytimePricePerHalfHour: 200,
			DaytimeStartHour:        13,
			DaytimeEndHour:          17,
			DepositAmount:           300,
			Mode:                    model.PricingModeBanded,
		},
		users: make(map[int64]*model.User),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func copyBooking(b *model.Booking) *model.Booking {
	c := *b
	c.Payments = nil
	return &c
}

type txCtxKey struct{}

type memTx struct{ *memStore }

func (t memTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txCtxKey{}) != nil {
		return fn(ctx)
	}
	t.txMu.Lock()
	defer t.txMu.Unlock()
	return fn(context.WithValue(ctx, txCtxKey{}, true))
}

type memBookings struct{ *memStore }

func (r memBookings) Create(_ context.Context, b *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return r.createErr
	}
	b.ID = r.id()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	r.bookings[b.ID] = copyBooking(b)
	return nil
}

func (r memBookings) GetByID(_ context.Context, id int64) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	return copyBooking(b), nil
}

func (r memBookings) GetByIDForUpdate(ctx context.Context, id int64) (*model.Booking, error) {
	return r.GetByID(ctx, id)
}

func (r memBookings) filter(keep func(*model.Booking) bool) []*model.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.Booking
	for _, b := range r.bookings {
		if keep(b) {
			out = append(out, copyBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

func (r memBookings) FindByField(_ context.Context, fieldID int64, from, to time.Time) ([]*model.Booking, error) {
	return r.filter(func(b *model.Booking) bool {
		return b.FieldID == fieldID && b.IsActive() && !b.StartTime.Before(from) && b.StartTime.Before(to)
	}), nil
}

func (r memBookings) ListByUser(_ context.Context, userID int64) ([]*model.Booking, error) {
	return r.filter(func(b *model.Booking) bool { return b.UserID == userID }), nil
}

func (r memBookings) ListRange(_ context.Context, from, to time.Time) ([]*model.Booking, error) {
	return r.filter(func(b *model.Booking) bool {
		return !b.StartTime.Before(from) && b.StartTime.Before(to)
	}), nil
}

func (r memBookings) ListUnpaid(_ context.Context) ([]*model.Booking, error) {
	return r.filter(func(b *model.Booking) bool {
		return b.Status == model.BookingStatusPending || b.Status == model.BookingStatusPendingConfirmation
	}), nil
}

func (r memBookings) Update(_ context.Context, b *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[b.ID]; !ok {
		return repository.ErrNotFound
	}
	b.UpdatedAt = time.Now()
	r.bookings[b.ID] = copyBooking(b)
	return nil
}

func (r memBookings) UpdateStatus(_ context.Context, id int64, from, to model.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok || b.Status != from {
		return repository.ErrStatusChanged
	}
	b.Status = to
	return nil
}

func (r memBookings) UpdateAmount(_ context.Context, id int64, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.TotalAmount = amount
	return nil
}

func (r memBookings) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}

type memPayments struct{ *memStore }

func (r memPayments) Create(_ context.Context, p *model.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.Amount < 0 || !p.Type.Valid() || !p.Method.Valid() {
		return repository.ErrCheckViolation
	}
	p.ID = r.id()
	p.CreatedAt = time.Now()
	r.payments[p.BookingID] = append(r.payments[p.BookingID], p)
	return nil
}

func (r memPayments) ListByBooking(_ context.Context, bookingID int64) ([]*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]*model.Payment(nil), r.payments[bookingID]...), nil
}

func (r memPayments) DeleteByBooking(_ context.Context, bookingID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.payments[bookingID]))
	delete(r.payments, bookingID)
	return n, nil
}

type memPrices struct{ *memStore }

func (r memPrices) Get(_ context.Context) (*model.PriceConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cfg == nil {
		return nil, nil
	}
	c := *r.cfg
	return &c, nil
}

type memFields struct{ *memStore }

func (r memFields) GetByID(_ context.Context, id int64) (*model.Field, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.fields[id]
	if !ok {
		return nil, nil
	}
	c := *f
	return &c, nil
}

func (r memFields) List(_ context.Context) ([]*model.Field, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*model.Field, 0, len(r.fields))
	for _, f := range r.fields {
		c := *f
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memFields) LockForUpdate(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.fields[id]; !ok {
		return repository.ErrNotFound
	}
	return nil
}

type memUsers struct{ *memStore }

func (r memUsers) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u.ID = r.id()
	c := *u
	r.users[u.ID] = &c
	return nil
}

func (r memUsers) GetByTelegramID(_ context.Context, telegramID int64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.TelegramID == telegramID {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r memUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r memUsers) Update(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	c := *u
	r.users[u.ID] = &c
	return nil
}

func (r memUsers) ListByIDs(_ context.Context, ids []int64) (map[int64]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[int64]*model.User)
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			c := *u
			out[id] = &c
		}
	}
	return out, nil
}

var testLoc = time.FixedZone("ICT", 7*60*60)

// hookTx выполняет before перед первой транзакцией, как конкурирующий запрос,
// успевший закоммититься раньше
type hookTx struct {
	memTx
	before func()
}

func (t *hookTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if hook := t.before; hook != nil {
		t.before = nil
		hook()
	}
	return t.memTx.RunInTx(ctx, fn)
}

func newTestBookingService(store *memStore) *BookingService {
	return newTestBookingServiceTx(store, memTx{store})
}

func newTestBookingServiceTx(store *memStore, tx TxRunner) *BookingService {
	return NewBookingService(
		tx,
		memBookings{store},
		memPayments{store},
		memPrices{store},
		memFields{store},
		testLoc,
		nil,
		zap.NewNop(),
	)
}
