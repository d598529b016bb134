package handlers

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Freeeeeet/pitch_booking/internal/controller/formatting"
	"github.com/Freeeeeet/pitch_booking/internal/controller/keyboard"
	"github.com/Freeeeeet/pitch_booking/internal/controller/state"
	"github.com/Freeeeeet/pitch_booking/internal/export"
	"github.com/Freeeeeet/pitch_booking/internal/model"
	"github.com/Freeeeeet/pitch_booking/internal/pricing"
	"github.com/Freeeeeet/pitch_booking/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleTextMessage обрабатывает текст в зависимости от состояния диалога
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	text := strings.TrimSpace(update.Message.Text)
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	switch h.stateManager.GetState(telegramID) {
	case state.StateBookDate:
		h.handleBookDate(ctx, b, chatID, telegramID, text)
	case state.StateBookTime:
		h.handleBookTime(ctx, b, chatID, telegramID, text)
	case state.StateBookConfirm:
		h.sendMessage(ctx, b, chatID, "👆 Подтвердите бронь кнопкой выше или /cancel")
	case state.StateProofURL:
		h.handleProofURL(ctx, b, update, text)
	case state.StateExportRange:
		h.handleExportRange(ctx, b, chatID, telegramID, text)
	default:
		h.sendMessage(ctx, b, chatID, helpHint(text))
	}
}

// askDate переводит диалог бронирования на ввод даты
func (h *Handlers) askDate(ctx context.Context, b *bot.Bot, chatID, telegramID int64, field *model.Field) {
	h.stateManager.Start(telegramID, state.StateBookDate, map[string]any{
		state.KeyFieldID: field.ID,
	})

	h.sendMessage(ctx, b, chatID, fmt.Sprintf(
		"⚽️ %s\n\n📅 Введите дату: сегодня, завтра или ДД.ММ\n\n/cancel - отменить", field.Name))
}

func (h *Handlers) handleBookDate(ctx context.Context, b *bot.Bot, chatID, telegramID int64, text string) {
	fieldID, ok := h.stateManager.GetInt64(telegramID, state.KeyFieldID)
	if !ok {
		h.restartBooking(ctx, b, chatID, telegramID)
		return
	}

	today := h.now()
	date, err := formatting.ParseDate(text, today)
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Не понял дату. Введите сегодня, завтра или ДД.ММ")
		return
	}
	if date.Before(time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())) {
		h.sendError(ctx, b, chatID, "❌ Эта дата уже прошла. Введите другую.")
		return
	}

	busy, err := h.bookings.ListFieldDay(ctx, fieldID, date)
	if err != nil {
		h.reportError(ctx, b, chatID, "list_field_day", err)
		return
	}

	h.stateManager.SetData(telegramID, state.KeyDate, date)
	h.stateManager.SetState(telegramID, state.StateBookTime)

	h.sendMessage(ctx, b, chatID, fmt.Sprintf(
		"📅 %s\n\n%s\n\n🕐 Введите время в формате 18:00-19:30",
		formatting.FormatDateWithWeekday(date),
		formatting.FormatDaySchedule(busy)))
}

func (h *Handlers) handleBookTime(ctx context.Context, b *bot.Bot, chatID, telegramID int64, text string) {
	fieldID, okField := h.stateManager.GetInt64(telegramID, state.KeyFieldID)
	date, okDate := h.stateManager.GetTime(telegramID, state.KeyDate)
	if !okField || !okDate {
		h.restartBooking(ctx, b, chatID, telegramID)
		return
	}

	start, end, err := formatting.ParseTimeRange(text, date)
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Не понял время. Пример: 18:00-19:30")
		return
	}
	if problem := bookTimeProblem(start, end, h.now()); problem != "" {
		h.sendError(ctx, b, chatID, problem)
		return
	}

	// Предварительная сумма, остальные ошибки интервала ловятся при создании
	amount, err := h.bookings.ComputeAmount(ctx, fieldID, start, end)
	if err != nil {
		h.reportError(ctx, b, chatID, "compute_amount", err)
		return
	}

	h.stateManager.SetData(telegramID, state.KeyStart, start)
	h.stateManager.SetData(telegramID, state.KeyEnd, end)
	h.stateManager.SetState(telegramID, state.StateBookConfirm)

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("✅ Забронировать", actionBookConfirm)).
		Row(keyboard.Button("❌ Отмена", actionBookAbort))

	h.sendMessage(ctx, b, chatID, fmt.Sprintf(
		"Проверьте бронь:\n\n📅 %s\n🕐 %s (%s)\n💰 %s",
		formatting.FormatDateWithWeekday(start),
		formatting.FormatTimeRange(start, end),
		formatting.FormatDuration(int(end.Sub(start).Minutes())),
		formatting.FormatAmount(amount)), kb.Build())
}

// bookTimeProblem текст ошибки для интервала, который нельзя показывать с ценой
func bookTimeProblem(start, end, now time.Time) string {
	if !start.After(now) {
		return "❌ Это время уже прошло. Введите другое."
	}
	if end.Sub(start) < pricing.MinDuration {
		return fmt.Sprintf("❌ Минимальная длительность брони %s. Введите другое время.",
			formatting.FormatDuration(int(pricing.MinDuration.Minutes())))
	}
	return ""
}

func (h *Handlers) restartBooking(ctx context.Context, b *bot.Bot, chatID, telegramID int64) {
	h.stateManager.ClearState(telegramID)
	h.sendError(ctx, b, chatID, "❌ Данные брони потерялись. Начните заново: /book")
}

func (h *Handlers) handleProofURL(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	chatID := update.Message.Chat.ID
	telegramID := update.Message.From.ID

	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	bookingID, ok := h.stateManager.GetInt64(telegramID, state.KeyBookingID)
	if !ok {
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, chatID, "❌ Бронь не выбрана. Откройте /mybookings")
		return
	}

	if !isProofURL(text) {
		h.sendError(ctx, b, chatID, "❌ Нужна ссылка на чек, начинающаяся с http:// или https://")
		return
	}

	booking, err := h.bookings.SubmitPaymentProof(ctx, requesterOf(user), bookingID, service.PaymentInput{
		Type:     model.PaymentTypeDeposit,
		Method:   model.PaymentMethodTransfer,
		ProofURL: text,
	})
	if err != nil {
		h.stateManager.ClearState(telegramID)
		h.reportError(ctx, b, chatID, "submit_proof", err)
		return
	}

	h.stateManager.ClearState(telegramID)
	h.sendMessage(ctx, b, chatID, "🧾 Чек отправлен на проверку. Мы сообщим, когда оплата будет подтверждена.")
	h.notifyStaff(ctx, b, user, booking, text)
}

// isProofURL ссылка на чек: абсолютный http(s) URL
func isProofURL(text string) bool {
	u, err := url.ParseRequestURI(text)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// notifyStaff отправляет чек администраторам с кнопками проверки
func (h *Handlers) notifyStaff(ctx context.Context, b *bot.Bot, user *model.User, booking *model.Booking, proofURL string) {
	if len(h.adminChatIDs) == 0 {
		h.logger.Warn("No admin chats configured for payment review", zap.Int64("booking_id", booking.ID))
		return
	}

	fieldName := h.fieldNames(ctx)[booking.FieldID]
	text := fmt.Sprintf("🧾 Новый чек от %s\n\n%s\n\n🔗 %s",
		service.DisplayName(user),
		formatting.FormatBooking(booking, fieldName),
		proofURL)

	kb := keyboard.NewBuilder().Row(
		keyboard.Button("✅ Подтвердить", callbackFor(actionPayConfirm, booking.ID)),
		keyboard.Button("❌ Отклонить", callbackFor(actionPayReject, booking.ID)),
	)

	for _, chatID := range h.adminChatIDs {
		h.sendMessage(ctx, b, chatID, text, kb.Build())
	}
}

func (h *Handlers) handleExportRange(ctx context.Context, b *bot.Bot, chatID, telegramID int64, text string) {
	from, to, err := formatting.ParseDateRange(text, h.bookings.Location())
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Формат: ДД.ММ.ГГГГ-ДД.ММ.ГГГГ")
		return
	}
	h.stateManager.ClearState(telegramID)

	if err := h.sendExport(ctx, b, chatID, from, to); err != nil {
		h.reportError(ctx, b, chatID, "export", err)
	}
}

// sendExport собирает xlsx за [from, to) и отправляет документом
func (h *Handlers) sendExport(ctx context.Context, b *bot.Bot, chatID int64, from, to time.Time) error {
	bookings, err := h.bookings.ListRange(ctx, from, to)
	if err != nil {
		return fmt.Errorf("list bookings: %w", err)
	}

	userIDs := make([]int64, 0, len(bookings))
	for _, booking := range bookings {
		userIDs = append(userIDs, booking.UserID)
	}
	users, err := h.users.Names(ctx, userIDs)
	if err != nil {
		return fmt.Errorf("get user names: %w", err)
	}

	buf, err := export.Workbook(export.Report{
		From:     from,
		To:       to,
		Bookings: bookings,
		Fields:   h.fieldNames(ctx),
		Users:    users,
	})
	if err != nil {
		return fmt.Errorf("build workbook: %w", err)
	}

	_, err = b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID:   chatID,
		Document: &models.InputFileUpload{Filename: export.FileName(from, to), Data: buf},
		Caption: fmt.Sprintf("📤 %s - %s: %d %s",
			formatting.FormatDate(from),
			formatting.FormatDate(to.AddDate(0, 0, -1)),
			len(bookings), formatting.PluralizeBookings(len(bookings))),
	})
	if err != nil {
		return fmt.Errorf("send document: %w", err)
	}
	return nil
}
