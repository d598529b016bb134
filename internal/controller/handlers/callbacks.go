package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/pitch_booking/internal/controller/formatting"
	"github.com/Freeeeeet/pitch_booking/internal/controller/keyboard"
	"github.com/Freeeeeet/pitch_booking/internal/controller/render"
	"github.com/Freeeeeet/pitch_booking/internal/controller/state"
	"github.com/Freeeeeet/pitch_booking/internal/model"
	"github.com/Freeeeeet/pitch_booking/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Действия в callback data, формат "action[:id[:date]]"
const (
	actionBookField     = "book_field"
	actionBookConfirm   = "book_confirm"
	actionBookAbort     = "book_abort"
	actionCancelBooking = "cancel_booking"
	actionProof         = "proof"
	actionPayConfirm    = "pay_confirm"
	actionPayReject     = "pay_reject"
	actionScheduleField = "schedule_field"
	actionScheduleWeek  = "schedule_week"
)

const callbackDateLayout = "20060102"

var errBadCallback = errors.New("bad callback data")

// callbackData разобранные данные кнопки
type callbackData struct {
	Action string
	ID     int64
	Date   time.Time
}

func callbackFor(action string, id int64) string {
	return action + ":" + strconv.FormatInt(id, 10)
}

func weekCallback(fieldID int64, date time.Time) string {
	return callbackFor(actionScheduleWeek, fieldID) + ":" + date.Format(callbackDateLayout)
}

// parseCallback разбирает callback data, дата читается в loc
func parseCallback(data string, loc *time.Location) (callbackData, error) {
	parts := strings.Split(data, ":")
	cd := callbackData{Action: parts[0]}

	switch cd.Action {
	case actionBookConfirm, actionBookAbort:
		if len(parts) != 1 {
			return cd, fmt.Errorf("%w: %q", errBadCallback, data)
		}
		return cd, nil
	case actionScheduleWeek:
		if len(parts) != 3 {
			return cd, fmt.Errorf("%w: %q", errBadCallback, data)
		}
		date, err := time.ParseInLocation(callbackDateLayout, parts[2], loc)
		if err != nil {
			return cd, fmt.Errorf("%w: %q", errBadCallback, data)
		}
		cd.Date = date
	case actionBookField, actionCancelBooking, actionProof,
		actionPayConfirm, actionPayReject, actionScheduleField:
		if len(parts) != 2 {
			return cd, fmt.Errorf("%w: %q", errBadCallback, data)
		}
	default:
		return cd, fmt.Errorf("%w: unknown action %q", errBadCallback, cd.Action)
	}

	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		return cd, fmt.Errorf("%w: %q", errBadCallback, data)
	}
	cd.ID = id
	return cd, nil
}

// HandleCallbackQuery маршрутизирует нажатия inline кнопок
func (h *Handlers) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}

	cd, err := parseCallback(callback.Data, h.bookings.Location())
	if err != nil {
		h.logger.Warn("Unknown callback", zap.String("data", callback.Data), zap.Error(err))
		h.answer(ctx, b, callback, "❌ Кнопка устарела", true)
		return
	}

	// Расписание доступно без регистрации
	switch cd.Action {
	case actionScheduleField:
		h.onScheduleWeek(ctx, b, callback, cd.ID, h.now())
		return
	case actionScheduleWeek:
		h.onScheduleWeek(ctx, b, callback, cd.ID, cd.Date)
		return
	}

	user, err := h.userByTelegramID(ctx, callback.From.ID)
	if err != nil {
		h.answer(ctx, b, callback, userErrorText(err), true)
		return
	}

	switch cd.Action {
	case actionBookField:
		h.onBookField(ctx, b, callback, cd.ID)
	case actionBookConfirm:
		h.onBookConfirm(ctx, b, callback, user)
	case actionBookAbort:
		h.stateManager.ClearState(callback.From.ID)
		h.answer(ctx, b, callback, "", false)
		h.editOrSend(ctx, b, callback, "❌ Бронирование отменено.")
	case actionCancelBooking:
		h.onCancelBooking(ctx, b, callback, user, cd.ID)
	case actionProof:
		h.onProof(ctx, b, callback, user, cd.ID)
	case actionPayConfirm, actionPayReject:
		h.onPaymentReview(ctx, b, callback, user, cd.ID, cd.Action == actionPayConfirm)
	}
}

func (h *Handlers) onBookField(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, fieldID int64) {
	field, err := h.bookings.GetField(ctx, fieldID)
	if err != nil {
		h.answer(ctx, b, callback, userErrorText(err), true)
		return
	}
	if !field.IsActive {
		h.answer(ctx, b, callback, "❌ Поле сейчас недоступно", true)
		return
	}

	h.answer(ctx, b, callback, "", false)
	h.askDate(ctx, b, callback.From.ID, callback.From.ID, field)
}

func (h *Handlers) onBookConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, user *model.User) {
	telegramID := callback.From.ID
	if h.stateManager.GetState(telegramID) != state.StateBookConfirm {
		h.answer(ctx, b, callback, "❌ Бронь уже оформлена или отменена", true)
		return
	}

	fieldID, ok1 := h.stateManager.GetInt64(telegramID, state.KeyFieldID)
	start, ok2 := h.stateManager.GetTime(telegramID, state.KeyStart)
	end, ok3 := h.stateManager.GetTime(telegramID, state.KeyEnd)
	h.stateManager.ClearState(telegramID)
	if !ok1 || !ok2 || !ok3 {
		h.answer(ctx, b, callback, "❌ Данные брони потерялись, начните заново: /book", true)
		return
	}

	booking, err := h.bookings.CreateBooking(ctx, requesterOf(user), service.BookingInput{
		FieldID: fieldID,
		Start:   start,
		End:     end,
	})
	if err != nil {
		if !service.IsUserError(err) {
			h.logger.Error("Failed to create booking", zap.Int64("user_id", user.ID), zap.Error(err))
		}
		h.answer(ctx, b, callback, userErrorText(err), true)
		return
	}

	h.answer(ctx, b, callback, "✅ Забронировано", false)

	text := formatting.FormatBooking(booking, h.fieldNames(ctx)[booking.FieldID]) +
		"\n\nЧтобы подтвердить бронь, переведите предоплату и отправьте ссылку на чек."
	if cfg, err := h.bookings.PriceConfig(ctx); err == nil && cfg.DepositAmount > 0 {
		text += "\nПредоплата: " + formatting.FormatAmount(min(cfg.DepositAmount, booking.TotalAmount))
	}

	h.editOrSend(ctx, b, callback, "✅ Бронь создана")
	h.sendMessage(ctx, b, callback.From.ID, text, bookingActions(booking))
}

func (h *Handlers) onCancelBooking(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, user *model.User, bookingID int64) {
	if err := h.bookings.CancelBooking(ctx, requesterOf(user), bookingID); err != nil {
		if !service.IsUserError(err) {
			h.logger.Error("Failed to cancel booking", zap.Int64("booking_id", bookingID), zap.Error(err))
		}
		h.answer(ctx, b, callback, userErrorText(err), true)
		return
	}

	h.answer(ctx, b, callback, "Бронь отменена", false)
	h.editOrSend(ctx, b, callback, fmt.Sprintf("❌ Бронь #%d отменена.", bookingID))
}

func (h *Handlers) onProof(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, user *model.User, bookingID int64) {
	booking, err := h.bookings.GetBooking(ctx, requesterOf(user), bookingID)
	if err != nil {
		h.answer(ctx, b, callback, userErrorText(err), true)
		return
	}
	if booking.Status != model.BookingStatusPending {
		display := formatting.GetBookingStatusDisplay(booking.Status)
		h.answer(ctx, b, callback, display.Emoji+" "+display.Text, true)
		return
	}

	h.stateManager.Start(callback.From.ID, state.StateProofURL, map[string]any{
		state.KeyBookingID: booking.ID,
	})

	h.answer(ctx, b, callback, "", false)
	h.sendMessage(ctx, b, callback.From.ID, fmt.Sprintf(
		"🧾 Бронь #%d\n\nОтправьте ссылку на чек перевода.\n\n/cancel - отменить", booking.ID))
}

// onPaymentReview подтверждение или отклонение чека администратором
func (h *Handlers) onPaymentReview(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, user *model.User, bookingID int64, approve bool) {
	req := requesterOf(user)

	var (
		booking *model.Booking
		err     error
	)
	if approve {
		booking, err = h.bookings.ConfirmPayment(ctx, req, bookingID)
	} else {
		booking, err = h.bookings.RejectPayment(ctx, req, bookingID)
	}
	if err != nil {
		if !service.IsUserError(err) {
			h.logger.Error("Failed to review payment", zap.Int64("booking_id", bookingID), zap.Error(err))
		}
		h.answer(ctx, b, callback, userErrorText(err), true)
		return
	}

	verdict, ownerText := "✅ Оплата подтверждена", fmt.Sprintf("✅ Оплата брони #%d подтверждена. Ждём вас на поле!", booking.ID)
	if !approve {
		verdict, ownerText = "❌ Чек отклонён", fmt.Sprintf("❌ Чек по брони #%d отклонён. Отправьте корректный чек через /mybookings.", booking.ID)
	}

	h.answer(ctx, b, callback, verdict, false)
	h.editOrSend(ctx, b, callback, fmt.Sprintf("%s (%s)\n\n%s",
		verdict, service.DisplayName(user),
		formatting.FormatBooking(booking, h.fieldNames(ctx)[booking.FieldID])))

	owner, err := h.users.GetByID(ctx, booking.UserID)
	if err != nil || owner == nil {
		h.logger.Warn("Failed to notify booking owner", zap.Int64("booking_id", booking.ID), zap.Error(err))
		return
	}
	h.sendMessage(ctx, b, owner.TelegramID, ownerText)
}

// onScheduleWeek отправляет картинку недели с навигацией
func (h *Handlers) onScheduleWeek(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, fieldID int64, date time.Time) {
	field, err := h.bookings.GetField(ctx, fieldID)
	if err != nil {
		h.answer(ctx, b, callback, userErrorText(err), true)
		return
	}

	image, err := h.weekImage(ctx, field, date)
	if err != nil {
		h.logger.Error("Failed to render week", zap.Int64("field_id", fieldID), zap.Error(err))
		h.answer(ctx, b, callback, "❌ Не удалось построить расписание", true)
		return
	}
	h.answer(ctx, b, callback, "", false)

	kb := keyboard.NewBuilder().Row(
		keyboard.Button("◀️ Пред. неделя", weekCallback(fieldID, date.AddDate(0, 0, -7))),
		keyboard.Button("След. неделя ▶️", weekCallback(fieldID, date.AddDate(0, 0, 7))),
	).Row(keyboard.Button("⚽️ Забронировать", callbackFor(actionBookField, fieldID)))

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:      callback.From.ID,
		Photo:       &models.InputFileUpload{Filename: "week.png", Data: bytes.NewReader(image)},
		Caption:     fmt.Sprintf("📅 %s, неделя с %s", field.Name, formatting.FormatDate(mondayOf(date))),
		ReplyMarkup: kb.Build(),
	})
	if err != nil {
		h.logger.Error("Failed to send week image", zap.Int64("field_id", fieldID), zap.Error(err))
		return
	}

	// Удаляем старую картинку, чтобы не копить сообщения при навигации
	if msg := callback.Message.Message; msg != nil && len(msg.Photo) > 0 {
		b.DeleteMessage(ctx, &bot.DeleteMessageParams{
			ChatID:    msg.Chat.ID,
			MessageID: msg.ID,
		})
	}
}

func (h *Handlers) weekImage(ctx context.Context, field *model.Field, date time.Time) ([]byte, error) {
	from := mondayOf(date)
	bookings, err := h.bookings.ListFieldRange(ctx, field.ID, from, from.AddDate(0, 0, 7))
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	userIDs := make([]int64, 0, len(bookings))
	for _, booking := range bookings {
		userIDs = append(userIDs, booking.UserID)
	}
	names, err := h.users.Names(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("get user names: %w", err)
	}

	prices, err := h.bookings.PriceConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("get price config: %w", err)
	}

	return render.WeekImage(render.Week{
		FieldName: field.Name,
		Date:      date,
		Bookings:  bookings,
		Names:     names,
		Prices:    prices,
		Now:       h.now(),
	})
}

// mondayOf понедельник недели date
func mondayOf(date time.Time) time.Time {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return day.AddDate(0, 0, -((int(day.Weekday()) + 6) % 7))
}

// editOrSend заменяет текст сообщения с кнопкой, иначе шлёт новое
func (h *Handlers) editOrSend(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, text string) {
	if msg := callback.Message.Message; msg != nil && len(msg.Photo) == 0 {
		_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:    msg.Chat.ID,
			MessageID: msg.ID,
			Text:      text,
		})
		if err == nil {
			return
		}
		h.logger.Debug("Failed to edit message, sending new one", zap.Error(err))
	}
	h.sendMessage(ctx, b, callback.From.ID, text)
}
