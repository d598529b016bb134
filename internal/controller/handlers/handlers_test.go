package handlers

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Freeeeeet/pitch_booking/internal/model"
	"github.com/Freeeeeet/pitch_booking/internal/service"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLoc = time.FixedZone("ICT", 7*60*60)

func TestParseCallback(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    callbackData
		wantErr bool
	}{
		{"book field", "book_field:3", callbackData{Action: actionBookField, ID: 3}, false},
		{"confirm", "book_confirm", callbackData{Action: actionBookConfirm}, false},
		{"abort", "book_abort", callbackData{Action: actionBookAbort}, false},
		{"pay reject", "pay_reject:42", callbackData{Action: actionPayReject, ID: 42}, false},
		{"week", "schedule_week:2:20240108", callbackData{
			Action: actionScheduleWeek,
			ID:     2,
			Date:   time.Date(2024, time.January, 8, 0, 0, 0, 0, testLoc),
		}, false},
		{"unknown action", "subscribe:1", callbackData{}, true},
		{"missing id", "cancel_booking", callbackData{}, true},
		{"negative id", "proof:-1", callbackData{}, true},
		{"not a number", "proof:abc", callbackData{}, true},
		{"extra part", "book_confirm:1", callbackData{}, true},
		{"bad date", "schedule_week:2:08.01.2024", callbackData{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCallback(tt.data, testLoc)
			if tt.wantErr {
				assert.ErrorIs(t, err, errBadCallback)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.Action, got.Action)
			assert.Equal(t, tt.want.ID, got.ID)
			assert.True(t, tt.want.Date.Equal(got.Date), "date %v != %v", got.Date, tt.want.Date)
		})
	}
}

func TestCallbackBuilders(t *testing.T) {
	date := time.Date(2024, time.January, 10, 15, 0, 0, 0, testLoc)

	data := weekCallback(5, date)
	assert.Equal(t, "schedule_week:5:20240110", data)
	assert.LessOrEqual(t, len(data), 64)

	cd, err := parseCallback(data, testLoc)
	require.NoError(t, err)
	assert.Equal(t, int64(5), cd.ID)

	cd, err = parseCallback(callbackFor(actionCancelBooking, 77), testLoc)
	require.NoError(t, err)
	assert.Equal(t, actionCancelBooking, cd.Action)
	assert.Equal(t, int64(77), cd.ID)
}

func TestUserErrorText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"slot taken", fmt.Errorf("create booking: %w", service.ErrSlotTaken), "❌ Это время уже занято. Выберите другой интервал."},
		{"forbidden", fmt.Errorf("%w: booking belongs to another user", service.ErrForbidden), "❌ Недостаточно прав для этого действия."},
		{"not found", fmt.Errorf("%w: booking 9", service.ErrNotFound), "❌ Не найдено: booking 9"},
		{"validation", fmt.Errorf("%w: minimum booking duration is 60 minutes", service.ErrValidation), "❌ minimum booking duration is 60 minutes"},
		{"not registered", errNotRegistered, "❌ Пользователь не найден. Используйте /start для регистрации."},
		{"internal", errors.New("conn refused 10.0.0.5:5432"), "❌ Произошла ошибка. Попробуйте позже."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, userErrorText(tt.err))
		})
	}
}

func TestIsProofURL(t *testing.T) {
	assert.True(t, isProofURL("https://bank.example/slip/123.jpg"))
	assert.True(t, isProofURL("http://cdn.example/a.png"))
	assert.False(t, isProofURL("slip.jpg"))
	assert.False(t, isProofURL("ftp://files.example/a.png"))
	assert.False(t, isProofURL("https://"))
	assert.False(t, isProofURL(""))
}

func TestCommandArgID(t *testing.T) {
	id, ok := commandArgID("/paid 42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	for _, text := range []string{"/paid", "/paid abc", "/paid 0", "/paid 1 2"} {
		_, ok := commandArgID(text)
		assert.False(t, ok, text)
	}
}

func TestMondayOf(t *testing.T) {
	sunday := time.Date(2024, time.January, 14, 22, 30, 0, 0, testLoc)
	monday := time.Date(2024, time.January, 8, 0, 0, 0, 0, testLoc)

	assert.True(t, monday.Equal(mondayOf(sunday)))
	assert.True(t, monday.Equal(mondayOf(monday)))
	assert.True(t, monday.Equal(mondayOf(monday.Add(23*time.Hour))))
}

func TestBookingActions(t *testing.T) {
	pending := &model.Booking{ID: 4, Status: model.BookingStatusPending}
	markup, ok := bookingActions(pending).(*models.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 2)
	assert.Equal(t, "proof:4", markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "cancel_booking:4", markup.InlineKeyboard[1][0].CallbackData)

	for _, status := range []model.BookingStatus{model.BookingStatusPendingConfirmation, model.BookingStatusPaid} {
		assert.Nil(t, bookingActions(&model.Booking{ID: 4, Status: status}), status)
	}
}

func TestHelpHint(t *testing.T) {
	assert.Contains(t, helpHint("/unknown"), "Неизвестная команда")
	assert.Contains(t, helpHint("привет"), "/book")
}

func TestBookTimeProblem(t *testing.T) {
	now := time.Date(2024, time.January, 1, 12, 0, 0, 0, testLoc)
	at := func(h, m int) time.Time { return time.Date(2024, time.January, 1, h, m, 0, 0, testLoc) }

	assert.Empty(t, bookTimeProblem(at(18, 0), at(19, 0), now))
	assert.Empty(t, bookTimeProblem(at(18, 0), at(19, 30), now))
	assert.Contains(t, bookTimeProblem(at(11, 0), at(12, 0), now), "уже прошло")
	assert.Contains(t, bookTimeProblem(at(18, 0), at(18, 30), now), "Минимальная длительность брони 1 ч")
	assert.Contains(t, bookTimeProblem(at(18, 0), at(18, 59), now), "Минимальная длительность")
}
