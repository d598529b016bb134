package handlers

import (
	"context"
	"time"

	"github.com/Freeeeeet/pitch_booking/internal/controller/state"
	"github.com/Freeeeeet/pitch_booking/internal/metrics"
	"github.com/Freeeeeet/pitch_booking/internal/model"
	"github.com/Freeeeeet/pitch_booking/internal/service"
	"go.uber.org/zap"
)

// BookingEngine операции с бронями, которые использует бот
type BookingEngine interface {
	Location() *time.Location
	CreateBooking(ctx context.Context, req service.Requester, in service.BookingInput) (*model.Booking, error)
	CancelBooking(ctx context.Context, req service.Requester, id int64) error
	ComputeAmount(ctx context.Context, fieldID int64, start, end time.Time) (int64, error)
	GetBooking(ctx context.Context, req service.Requester, id int64) (*model.Booking, error)
	SubmitPaymentProof(ctx context.Context, req service.Requester, id int64, in service.PaymentInput) (*model.Booking, error)
	MarkPaid(ctx context.Context, req service.Requester, id int64, in service.PaymentInput) (*model.Booking, error)
	ConfirmPayment(ctx context.Context, req service.Requester, id int64) (*model.Booking, error)
	RejectPayment(ctx context.Context, req service.Requester, id int64) (*model.Booking, error)
	RecalculateTotals(ctx context.Context, req service.Requester) (int, error)
	ListUserBookings(ctx context.Context, userID int64) ([]*model.Booking, error)
	ListFieldDay(ctx context.Context, fieldID int64, date time.Time) ([]*model.Booking, error)
	ListFieldRange(ctx context.Context, fieldID int64, from, to time.Time) ([]*model.Booking, error)
	ListRange(ctx context.Context, from, to time.Time) ([]*model.Booking, error)
	ListFields(ctx context.Context) ([]*model.Field, error)
	GetField(ctx context.Context, id int64) (*model.Field, error)
	PriceConfig(ctx context.Context) (*model.PriceConfig, error)
}

// UserDirectory пользователи бота
type UserDirectory interface {
	RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName, languageCode string) (*model.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Names(ctx context.Context, ids []int64) (map[int64]string, error)
}

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	users        UserDirectory
	bookings     BookingEngine
	stateManager *state.Manager
	adminChatIDs []int64 // куда присылать чеки на проверку
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	users UserDirectory,
	bookings BookingEngine,
	stateManager *state.Manager,
	adminChatIDs []int64,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		users:        users,
		bookings:     bookings,
		stateManager: stateManager,
		adminChatIDs: adminChatIDs,
		metrics:      m,
		logger:       logger,
	}
}

func requesterOf(user *model.User) service.Requester {
	return service.Requester{UserID: user.ID, Role: user.Role}
}

// now текущее время в часовом поясе площадки
func (h *Handlers) now() time.Time {
	return time.Now().In(h.bookings.Location())
}
