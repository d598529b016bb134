package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/pitch_booking/internal/metrics"
	"github.com/Freeeeeet/pitch_booking/internal/model"
	"github.com/Freeeeeet/pitch_booking/internal/pricing"
	"github.com/Freeeeeet/pitch_booking/internal/repository"
	"github.com/Freeeeeet/pitch_booking/internal/slot"
	"go.uber.org/zap"
)

// BookingStore хранилище броней
type BookingStore interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*model.Booking, error)
	FindByField(ctx context.Context, fieldID int64, from, to time.Time) ([]*model.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]*model.Booking, error)
	ListRange(ctx context.Context, from, to time.Time) ([]*model.Booking, error)
	ListUnpaid(ctx context.Context) ([]*model.Booking, error)
	Update(ctx context.Context, booking *model.Booking) error
	UpdateStatus(ctx context.Context, id int64, from, to model.BookingStatus) error
	UpdateAmount(ctx context.Context, id int64, amount int64) error
	Delete(ctx context.Context, id int64) error
}

// PaymentStore хранилище оплат
type PaymentStore interface {
	Create(ctx context.Context, payment *model.Payment) error
	ListByBooking(ctx context.Context, bookingID int64) ([]*model.Payment, error)
	DeleteByBooking(ctx context.Context, bookingID int64) (int64, error)
}

// PriceConfigStore источник тарифов
type PriceConfigStore interface {
	Get(ctx context.Context) (*model.PriceConfig, error)
}

// FieldStore хранилище полей
type FieldStore interface {
	GetByID(ctx context.Context, id int64) (*model.Field, error)
	List(ctx context.Context) ([]*model.Field, error)
	LockForUpdate(ctx context.Context, id int64) error
}

// TxRunner выполняет функцию в одной транзакции
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Requester кто выполняет операцию
type Requester struct {
	UserID int64
	Role   model.Role
}

func (r Requester) privileged() bool {
	return r.Role.IsPrivileged()
}

func (r Requester) canAccess(booking *model.Booking) bool {
	return r.privileged() || booking.UserID == r.UserID
}

// BookingInput данные для создания или изменения брони.
// Нулевые поля при обновлении означают "оставить как есть".
type BookingInput struct {
	FieldID int64
	UserID  int64 // владелец брони, 0 = сам запрашивающий
	Start   time.Time
	End     time.Time
	Amount  *int64               // ручная сумма, только для admin/owner
	Status  *model.BookingStatus // только при обновлении
}

// PaymentInput данные об оплате
type PaymentInput struct {
	Type     model.PaymentType
	Method   model.PaymentMethod
	ProofURL string
	Amount   int64 // 0 = посчитать по брони
}

type BookingService struct {
	tx       TxRunner
	bookings BookingStore
	payments PaymentStore
	prices   PriceConfigStore
	fields   FieldStore
	loc      *time.Location
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewBookingService(
	tx TxRunner,
	bookings BookingStore,
	payments PaymentStore,
	prices PriceConfigStore,
	fields FieldStore,
	loc *time.Location,
	m *metrics.Metrics,
	logger *zap.Logger,
) *BookingService {
	if loc == nil {
		loc = time.Local
	}
	return &BookingService{
		tx:       tx,
		bookings: bookings,
		payments: payments,
		prices:   prices,
		fields:   fields,
		loc:      loc,
		metrics:  m,
		logger:   logger,
	}
}

// Location часовой пояс площадки, в нём считаются даты и тарифы
func (s *BookingService) Location() *time.Location {
	return s.loc
}

// CreateBooking создаёт бронь в статусе pending
func (s *BookingService) CreateBooking(ctx context.Context, req Requester, in BookingInput) (_ *model.Booking, err error) {
	started := time.Now()
	defer func() { s.metrics.ObserveOperation("create", outcome(err), started) }()

	ownerID := in.UserID
	if ownerID == 0 {
		ownerID = req.UserID
	}

	// Права проверяются до бизнес-правил
	if ownerID != req.UserID && !req.privileged() {
		return nil, fmt.Errorf("%w: only staff can book on behalf of another user", ErrForbidden)
	}
	if in.Amount != nil && !req.privileged() {
		return nil, fmt.Errorf("%w: only staff can set the amount", ErrForbidden)
	}

	candidate, err := s.candidateSlot(in.FieldID, in.Start, in.End)
	if err != nil {
		return nil, err
	}
	if in.Amount != nil && *in.Amount < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative", ErrValidation)
	}

	if _, err := s.activeField(ctx, in.FieldID); err != nil {
		return nil, err
	}

	booking := &model.Booking{
		UserID:    ownerID,
		FieldID:   candidate.FieldID,
		StartTime: candidate.Start,
		EndTime:   candidate.End,
		Status:    model.BookingStatusPending,
		// Сумма admin/owner не пересчитывается при смене тарифов
		ManualAmount: in.Amount != nil,
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.fields.LockForUpdate(ctx, candidate.FieldID); err != nil {
			return fmt.Errorf("lock field: %w", err)
		}

		if err := s.ensureFree(ctx, candidate, 0); err != nil {
			return err
		}

		amount, err := s.amountFor(ctx, candidate, in.Amount)
		if err != nil {
			return err
		}
		booking.TotalAmount = amount

		return s.bookings.Create(ctx, booking)
	})
	if err != nil {
		return nil, s.storeError(err)
	}

	s.metrics.AddBooked(booking.TotalAmount)
	s.logger.Info("Booking created",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("user_id", booking.UserID),
		zap.Int64("requester_id", req.UserID),
		zap.Int64("field_id", booking.FieldID),
		zap.Time("start", booking.StartTime),
		zap.Time("end", booking.EndTime),
		zap.Int64("amount", booking.TotalAmount),
	)

	return booking, nil
}

// UpdateBooking переносит бронь и/или меняет статус и сумму
func (s *BookingService) UpdateBooking(ctx context.Context, req Requester, id int64, in BookingInput) (_ *model.Booking, err error) {
	started := time.Now()
	defer func() { s.metrics.ObserveOperation("update", outcome(err), started) }()

	var booking *model.Booking
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if booking, err = s.lockedBooking(ctx, id); err != nil {
			return err
		}
		return s.applyUpdate(ctx, req, booking, in)
	})
	if err != nil {
		return nil, s.storeError(err)
	}

	s.logger.Info("Booking updated",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("requester_id", req.UserID),
		zap.Int64("field_id", booking.FieldID),
		zap.Time("start", booking.StartTime),
		zap.Time("end", booking.EndTime),
		zap.String("status", string(booking.Status)),
		zap.Int64("amount", booking.TotalAmount),
	)

	return booking, nil
}

// applyUpdate проверяет права и переходы по заблокированной брони и сохраняет её
func (s *BookingService) applyUpdate(ctx context.Context, req Requester, booking *model.Booking, in BookingInput) error {
	if !req.canAccess(booking) {
		return fmt.Errorf("%w: booking belongs to another user", ErrForbidden)
	}
	if !req.privileged() {
		if in.Amount != nil || in.Status != nil {
			return fmt.Errorf("%w: only staff can change status or amount", ErrForbidden)
		}
		if in.UserID != 0 && in.UserID != booking.UserID {
			return fmt.Errorf("%w: only staff can reassign a booking", ErrForbidden)
		}
		if booking.IsPaid() {
			return fmt.Errorf("%w: paid booking can only be changed by staff", ErrForbidden)
		}
	}

	fieldID, start, end := booking.FieldID, booking.StartTime, booking.EndTime
	if in.FieldID != 0 {
		fieldID = in.FieldID
	}
	if !in.Start.IsZero() {
		start = in.Start
	}
	if !in.End.IsZero() {
		end = in.End
	}

	candidate, err := s.candidateSlot(fieldID, start, end)
	if err != nil {
		return err
	}
	moved := candidate.FieldID != booking.FieldID ||
		!candidate.Start.Equal(booking.StartTime) ||
		!candidate.End.Equal(booking.EndTime)

	status := booking.Status
	if in.Status != nil && *in.Status != booking.Status {
		if !in.Status.Valid() {
			return fmt.Errorf("%w: unknown status %q", ErrValidation, *in.Status)
		}
		if !booking.Status.CanTransitionTo(*in.Status) {
			return fmt.Errorf("%w: cannot change status from %s to %s", ErrValidation, booking.Status, *in.Status)
		}
		status = *in.Status
	}
	if in.Amount != nil && *in.Amount < 0 {
		return fmt.Errorf("%w: amount must not be negative", ErrValidation)
	}
	if moved && booking.Status == model.BookingStatusCancelled {
		return fmt.Errorf("%w: cancelled booking cannot be rescheduled", ErrValidation)
	}

	if candidate.FieldID != booking.FieldID {
		if _, err := s.activeField(ctx, candidate.FieldID); err != nil {
			return err
		}
	}

	if moved && status != model.BookingStatusCancelled {
		if err := s.lockFields(ctx, booking.FieldID, candidate.FieldID); err != nil {
			return err
		}
		if err := s.ensureFree(ctx, candidate, booking.ID); err != nil {
			return err
		}
	}

	switch {
	case in.Amount != nil:
		booking.TotalAmount = *in.Amount
		booking.ManualAmount = true
	case moved:
		amount, err := s.amountFor(ctx, candidate, nil)
		if err != nil {
			return err
		}
		booking.TotalAmount = amount
		booking.ManualAmount = false
	}

	if in.UserID != 0 {
		booking.UserID = in.UserID
	}
	booking.FieldID = candidate.FieldID
	booking.StartTime = candidate.Start
	booking.EndTime = candidate.End
	booking.Status = status

	return s.bookings.Update(ctx, booking)
}

// CancelBooking удаляет бронь вместе с оплатами.
// Владелец может удалить только неоплаченную бронь, admin/owner любую.
func (s *BookingService) CancelBooking(ctx context.Context, req Requester, id int64) (err error) {
	started := time.Now()
	defer func() { s.metrics.ObserveOperation("cancel", outcome(err), started) }()

	var (
		booking         *model.Booking
		removedPayments int64
	)
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if booking, err = s.lockedBooking(ctx, id); err != nil {
			return err
		}
		if !req.canAccess(booking) {
			return fmt.Errorf("%w: booking belongs to another user", ErrForbidden)
		}
		if !req.privileged() && booking.IsPaid() {
			return fmt.Errorf("%w: paid booking can only be cancelled by staff", ErrForbidden)
		}

		if removedPayments, err = s.payments.DeleteByBooking(ctx, booking.ID); err != nil {
			return err
		}
		return s.bookings.Delete(ctx, booking.ID)
	})
	if err != nil {
		return s.storeError(err)
	}

	s.logger.Info("Booking cancelled",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("requester_id", req.UserID),
		zap.String("role", string(req.Role)),
		zap.String("status", string(booking.Status)),
		zap.Int64("payments_removed", removedPayments),
	)

	return nil
}

// ComputeAmount стоимость интервала по текущим тарифам.
// Интервалы короче минимальной длительности стоят 0.
func (s *BookingService) ComputeAmount(ctx context.Context, fieldID int64, start, end time.Time) (int64, error) {
	if fieldID <= 0 {
		return 0, fmt.Errorf("%w: field_id is required", ErrValidation)
	}
	candidate, err := slot.New(fieldID, start.In(s.loc), end.In(s.loc))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	field, err := s.fields.GetByID(ctx, fieldID)
	if err != nil {
		return 0, err
	}
	if field == nil {
		return 0, fmt.Errorf("%w: field %d", ErrNotFound, fieldID)
	}

	return s.amountFor(ctx, candidate, nil)
}

// MarkPaid отмечает оплату наличными на месте (только admin/owner)
func (s *BookingService) MarkPaid(ctx context.Context, req Requester, id int64, in PaymentInput) (_ *model.Booking, err error) {
	started := time.Now()
	defer func() { s.metrics.ObserveOperation("mark_paid", outcome(err), started) }()

	if !req.privileged() {
		return nil, fmt.Errorf("%w: only staff can accept payments", ErrForbidden)
	}

	payment := &model.Payment{
		BookingID: id,
		Type:      orDefault(in.Type, model.PaymentTypeFull),
		Method:    orDefault(in.Method, model.PaymentMethodCash),
		ProofURL:  in.ProofURL,
		Amount:    in.Amount,
	}
	if err := validatePayment(payment); err != nil {
		return nil, err
	}

	var booking *model.Booking
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if booking, err = s.lockedBooking(ctx, id); err != nil {
			return err
		}
		if !booking.Status.CanTransitionTo(model.BookingStatusPaid) {
			return fmt.Errorf("%w: booking is %s", ErrValidation, booking.Status)
		}

		if payment.Amount == 0 {
			payment.Amount = booking.TotalAmount
		}
		return s.recordPayment(ctx, booking, payment, model.BookingStatusPaid)
	})
	if err != nil {
		return nil, s.storeError(err)
	}

	s.logger.Info("Booking paid",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("requester_id", req.UserID),
		zap.String("method", string(payment.Method)),
		zap.Int64("amount", payment.Amount),
	)

	return booking, nil
}

// SubmitPaymentProof прикладывает чек перевода, бронь ждёт проверки
func (s *BookingService) SubmitPaymentProof(ctx context.Context, req Requester, id int64, in PaymentInput) (_ *model.Booking, err error) {
	started := time.Now()
	defer func() { s.metrics.ObserveOperation("submit_proof", outcome(err), started) }()

	payment := &model.Payment{
		BookingID: id,
		Type:      orDefault(in.Type, model.PaymentTypeDeposit),
		Method:    orDefault(in.Method, model.PaymentMethodTransfer),
		ProofURL:  in.ProofURL,
		Amount:    in.Amount,
	}

	var booking *model.Booking
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if booking, err = s.lockedBooking(ctx, id); err != nil {
			return err
		}
		if !req.canAccess(booking) {
			return fmt.Errorf("%w: booking belongs to another user", ErrForbidden)
		}

		if payment.ProofURL == "" {
			return fmt.Errorf("%w: proof_url is required", ErrValidation)
		}
		if err := validatePayment(payment); err != nil {
			return err
		}
		if booking.Status != model.BookingStatusPending {
			return fmt.Errorf("%w: booking is %s", ErrValidation, booking.Status)
		}

		if payment.Amount == 0 {
			payment.Amount = booking.TotalAmount
			if payment.Type == model.PaymentTypeDeposit {
				cfg, err := s.priceConfig(ctx)
				if err != nil {
					return err
				}
				payment.Amount = min(cfg.DepositAmount, booking.TotalAmount)
			}
		}

		return s.recordPayment(ctx, booking, payment, model.BookingStatusPendingConfirmation)
	})
	if err != nil {
		return nil, s.storeError(err)
	}

	s.logger.Info("Payment proof submitted",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("requester_id", req.UserID),
		zap.String("type", string(payment.Type)),
		zap.Int64("amount", payment.Amount),
	)

	return booking, nil
}

// ConfirmPayment подтверждает загруженный чек (только admin/owner)
func (s *BookingService) ConfirmPayment(ctx context.Context, req Requester, id int64) (*model.Booking, error) {
	return s.reviewPayment(ctx, req, id, model.BookingStatusPaid)
}

// RejectPayment отклоняет чек, бронь снова ждёт оплаты (только admin/owner)
func (s *BookingService) RejectPayment(ctx context.Context, req Requester, id int64) (*model.Booking, error) {
	return s.reviewPayment(ctx, req, id, model.BookingStatusPending)
}

func (s *BookingService) reviewPayment(ctx context.Context, req Requester, id int64, next model.BookingStatus) (_ *model.Booking, err error) {
	started := time.Now()
	defer func() { s.metrics.ObserveOperation("review_payment", outcome(err), started) }()

	if !req.privileged() {
		return nil, fmt.Errorf("%w: only staff can review payments", ErrForbidden)
	}

	var booking *model.Booking
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if booking, err = s.lockedBooking(ctx, id); err != nil {
			return err
		}
		if booking.Status != model.BookingStatusPendingConfirmation {
			return fmt.Errorf("%w: booking is %s", ErrValidation, booking.Status)
		}

		if err := s.bookings.UpdateStatus(ctx, booking.ID, booking.Status, next); err != nil {
			return err
		}
		booking.Status = next
		return nil
	})
	if err != nil {
		return nil, s.storeError(err)
	}

	s.logger.Info("Payment reviewed",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("requester_id", req.UserID),
		zap.String("status", string(next)),
	)

	return booking, nil
}

// RecalculateTotals пересчитывает суммы неоплаченных броней по текущим тарифам.
// Брони с суммой, заданной вручную, не трогает. Возвращает количество изменённых броней.
func (s *BookingService) RecalculateTotals(ctx context.Context, req Requester) (_ int, err error) {
	started := time.Now()
	defer func() { s.metrics.ObserveOperation("recalculate", outcome(err), started) }()

	if !req.privileged() {
		return 0, fmt.Errorf("%w: only staff can recalculate totals", ErrForbidden)
	}

	changed := 0
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		cfg, err := s.priceConfig(ctx)
		if err != nil {
			return err
		}
		calc := pricing.ForConfig(cfg)

		bookings, err := s.bookings.ListUnpaid(ctx)
		if err != nil {
			return err
		}

		for _, booking := range bookings {
			if booking.ManualAmount {
				continue
			}
			amount := calc.Amount(s.slotOf(booking))
			if amount == booking.TotalAmount {
				continue
			}
			if err := s.bookings.UpdateAmount(ctx, booking.ID, amount); err != nil {
				return err
			}
			changed++
		}
		return nil
	})
	if err != nil {
		return 0, s.storeError(err)
	}

	s.logger.Info("Booking totals recalculated",
		zap.Int64("requester_id", req.UserID),
		zap.Int("changed", changed),
	)

	return changed, nil
}

// GetBooking бронь с оплатами, доступна владельцу и admin/owner
func (s *BookingService) GetBooking(ctx context.Context, req Requester, id int64) (*model.Booking, error) {
	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if !req.canAccess(booking) {
		return nil, fmt.Errorf("%w: booking belongs to another user", ErrForbidden)
	}

	payments, err := s.payments.ListByBooking(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("get payments: %w", err)
	}
	booking.Payments = payments

	return booking, nil
}

// ListUserBookings брони пользователя, новые сверху
func (s *BookingService) ListUserBookings(ctx context.Context, userID int64) ([]*model.Booking, error) {
	bookings, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.localize(bookings)
	return bookings, nil
}

// ListFieldDay активные брони поля за локальную дату
func (s *BookingService) ListFieldDay(ctx context.Context, fieldID int64, date time.Time) ([]*model.Booking, error) {
	day := s.dayStart(date)
	return s.ListFieldRange(ctx, fieldID, day, day.AddDate(0, 0, 1))
}

// ListFieldRange активные брони поля, начинающиеся в [from, to)
func (s *BookingService) ListFieldRange(ctx context.Context, fieldID int64, from, to time.Time) ([]*model.Booking, error) {
	bookings, err := s.bookings.FindByField(ctx, fieldID, from, to)
	if err != nil {
		return nil, err
	}
	s.localize(bookings)
	return bookings, nil
}

// ListRange все брони за период, для выгрузки
func (s *BookingService) ListRange(ctx context.Context, from, to time.Time) ([]*model.Booking, error) {
	bookings, err := s.bookings.ListRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	s.localize(bookings)
	return bookings, nil
}

// ListFields все поля
func (s *BookingService) ListFields(ctx context.Context) ([]*model.Field, error) {
	return s.fields.List(ctx)
}

// GetField поле по ID, ErrNotFound если нет
func (s *BookingService) GetField(ctx context.Context, id int64) (*model.Field, error) {
	field, err := s.fields.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if field == nil {
		return nil, fmt.Errorf("%w: field %d", ErrNotFound, id)
	}
	return field, nil
}

// PriceConfig текущие тарифы
func (s *BookingService) PriceConfig(ctx context.Context) (*model.PriceConfig, error) {
	return s.priceConfig(ctx)
}

// candidateSlot проверяет и нормализует запрошенный интервал
func (s *BookingService) candidateSlot(fieldID int64, start, end time.Time) (slot.TimeSlot, error) {
	if fieldID <= 0 {
		return slot.TimeSlot{}, fmt.Errorf("%w: field_id is required", ErrValidation)
	}
	if start.IsZero() || end.IsZero() {
		return slot.TimeSlot{}, fmt.Errorf("%w: start and end are required", ErrValidation)
	}

	candidate, err := slot.New(fieldID, start.In(s.loc), end.In(s.loc))
	if err != nil {
		return slot.TimeSlot{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if candidate.Duration() < pricing.MinDuration {
		return slot.TimeSlot{}, fmt.Errorf("%w: minimum booking duration is %d minutes",
			ErrValidation, int(pricing.MinDuration.Minutes()))
	}
	if !candidate.EndsWithinDay() {
		return slot.TimeSlot{}, fmt.Errorf("%w: booking must end on the day it starts", ErrValidation)
	}

	return candidate, nil
}

// ensureFree возвращает ErrSlotTaken, если кандидат пересекается с бронями поля за ту же дату
func (s *BookingService) ensureFree(ctx context.Context, candidate slot.TimeSlot, excludeID int64) error {
	day := candidate.Date()
	bookings, err := s.bookings.FindByField(ctx, candidate.FieldID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return err
	}

	existing := make([]slot.TimeSlot, 0, len(bookings))
	for _, booking := range bookings {
		if booking.ID == excludeID || !booking.IsActive() {
			continue
		}
		existing = append(existing, s.slotOf(booking))
	}

	if slot.IsOverlapping(candidate, existing) {
		s.metrics.IncConflict()
		return fmt.Errorf("%w: %s %s-%s", ErrSlotTaken,
			candidate.Start.Format("2006-01-02"),
			candidate.Start.Format("15:04"),
			candidate.End.Format("15:04"))
	}
	return nil
}

func (s *BookingService) amountFor(ctx context.Context, candidate slot.TimeSlot, override *int64) (int64, error) {
	if override != nil {
		return *override, nil
	}
	cfg, err := s.priceConfig(ctx)
	if err != nil {
		return 0, err
	}
	return pricing.Amount(candidate, cfg), nil
}

func (s *BookingService) priceConfig(ctx context.Context) (*model.PriceConfig, error) {
	cfg, err := s.prices.Get(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: price config is not set", ErrNotFound)
	}
	return cfg, nil
}

func (s *BookingService) activeField(ctx context.Context, id int64) (*model.Field, error) {
	field, err := s.GetField(ctx, id)
	if err != nil {
		return nil, err
	}
	if !field.IsActive {
		return nil, fmt.Errorf("%w: field %q is closed for booking", ErrValidation, field.Name)
	}
	return field, nil
}

// lockFields блокирует поля по возрастанию ID, чтобы не было взаимных блокировок
func (s *BookingService) lockFields(ctx context.Context, ids ...int64) error {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for i, id := range ids {
		if i > 0 && ids[i-1] == id {
			continue
		}
		if err := s.fields.LockForUpdate(ctx, id); err != nil {
			return fmt.Errorf("lock field: %w", err)
		}
	}
	return nil
}

func (s *BookingService) getBooking(ctx context.Context, id int64) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: booking %d", ErrNotFound, id)
	}
	booking.StartTime = booking.StartTime.In(s.loc)
	booking.EndTime = booking.EndTime.In(s.loc)
	return booking, nil
}

// lockedBooking читает бронь с блокировкой строки, вызывать внутри транзакции
func (s *BookingService) lockedBooking(ctx context.Context, id int64) (*model.Booking, error) {
	booking, err := s.bookings.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lock booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: booking %d", ErrNotFound, id)
	}
	booking.StartTime = booking.StartTime.In(s.loc)
	booking.EndTime = booking.EndTime.In(s.loc)
	return booking, nil
}

// recordPayment добавляет оплату и меняет статус заблокированной брони.
// Вызывается внутри транзакции.
func (s *BookingService) recordPayment(ctx context.Context, booking *model.Booking, payment *model.Payment, next model.BookingStatus) error {
	if err := s.payments.Create(ctx, payment); err != nil {
		return err
	}
	if err := s.bookings.UpdateStatus(ctx, booking.ID, booking.Status, next); err != nil {
		return err
	}

	booking.Status = next
	booking.Payments = append(booking.Payments, payment)
	return nil
}

func validatePayment(payment *model.Payment) error {
	if !payment.Type.Valid() {
		return fmt.Errorf("%w: unknown payment type %q", ErrValidation, payment.Type)
	}
	if !payment.Method.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", ErrValidation, payment.Method)
	}
	if payment.Amount < 0 {
		return fmt.Errorf("%w: amount must not be negative", ErrValidation)
	}
	return nil
}

// storeError переводит ошибки хранилища в ошибки сервиса
func (s *BookingService) storeError(err error) error {
	switch {
	case IsUserError(err):
		return err
	case errors.Is(err, repository.ErrBookingOverlap):
		s.metrics.IncConflict()
		return fmt.Errorf("%w: overlaps another booking", ErrSlotTaken)
	case errors.Is(err, repository.ErrStatusChanged):
		return fmt.Errorf("%w: booking status changed, reload and retry", ErrValidation)
	case errors.Is(err, repository.ErrCheckViolation):
		return fmt.Errorf("%w: %v", ErrValidation, err)
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}

func (s *BookingService) slotOf(booking *model.Booking) slot.TimeSlot {
	return slot.TimeSlot{
		FieldID: booking.FieldID,
		Start:   booking.StartTime.In(s.loc),
		End:     booking.EndTime.In(s.loc),
	}
}

func (s *BookingService) localize(bookings []*model.Booking) {
	for _, booking := range bookings {
		booking.StartTime = booking.StartTime.In(s.loc)
		booking.EndTime = booking.EndTime.In(s.loc)
	}
}

func (s *BookingService) dayStart(t time.Time) time.Time {
	y, m, d := t.In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}

func orDefault[T ~string](v, def T) T {
	if v == "" {
		return def
	}
	return v
}
