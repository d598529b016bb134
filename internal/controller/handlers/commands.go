package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/pitch_booking/internal/controller/formatting"
	"github.com/Freeeeeet/pitch_booking/internal/controller/keyboard"
	"github.com/Freeeeeet/pitch_booking/internal/controller/state"
	"github.com/Freeeeeet/pitch_booking/internal/model"
	"github.com/Freeeeeet/pitch_booking/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	from := update.Message.From
	user, err := h.users.RegisterUser(ctx,
		from.ID,
		from.Username,
		from.FirstName,
		from.LastName,
		from.LanguageCode,
	)
	if err != nil {
		h.reportError(ctx, b, update.Message.Chat.ID, "register_user", err)
		return
	}

	h.stateManager.ClearState(from.ID)

	text := fmt.Sprintf("👋 Привет, %s!\n\n"+
		"Здесь можно забронировать поле и оплатить бронь.\n\n"+
		"⚽️ /book - забронировать поле\n"+
		"🏟 /fields - список полей\n"+
		"📋 /mybookings - мои брони\n"+
		"📅 /schedule - расписание поля\n"+
		"💰 /price - тарифы\n"+
		"❓ /help - помощь",
		from.FirstName)

	if user.IsPrivileged() {
		text += "\n\n🛠 Администратору:\n" +
			"📤 /export - выгрузка броней в Excel\n" +
			"💵 /paid <номер> - отметить оплату наличными\n" +
			"🔄 /recalc - пересчитать суммы неоплаченных броней"
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, text)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	text := "❓ Как забронировать поле\n\n" +
		"1. /book и выберите поле\n" +
		"2. Введите дату: сегодня, завтра или ДД.ММ\n" +
		"3. Введите время: например 18:00-19:30\n" +
		"4. Подтвердите бронь\n\n" +
		"Минимум 1 час, шаг 30 минут.\n" +
		"После брони отправьте ссылку на чек перевода через /mybookings.\n\n" +
		"/cancel - отменить текущий ввод"

	h.sendMessage(ctx, b, update.Message.Chat.ID, text)
}

// HandleCancel сбрасывает текущий диалог
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	if h.stateManager.GetState(update.Message.From.ID) == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "Нечего отменять 🙂")
		return
	}

	h.stateManager.ClearState(update.Message.From.ID)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Действие отменено.")
}

// HandlePrice показывает тарифы
func (h *Handlers) HandlePrice(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	cfg, err := h.bookings.PriceConfig(ctx)
	if err != nil {
		h.reportError(ctx, b, update.Message.Chat.ID, "price_config", err)
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, formatting.FormatPriceConfig(cfg))
}

// HandleBook начинает бронирование: выбор поля
func (h *Handlers) HandleBook(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireUser(ctx, b, update); !ok {
		return
	}
	h.sendFieldPicker(ctx, b, update.Message.Chat.ID, "⚽️ Выберите поле:", actionBookField)
}

// HandleFields список полей с кнопками брони и расписания
func (h *Handlers) HandleFields(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	fields, err := h.bookings.ListFields(ctx)
	if err != nil {
		h.reportError(ctx, b, chatID, "list_fields", err)
		return
	}

	kb := keyboard.NewBuilder()
	active := 0
	for _, f := range fields {
		if !f.IsActive {
			continue
		}
		active++
		kb.Row(
			keyboard.Button("⚽️ "+f.Name, callbackFor(actionBookField, f.ID)),
			keyboard.Button("📅 Расписание", callbackFor(actionScheduleField, f.ID)),
		)
	}

	if active == 0 {
		h.sendMessage(ctx, b, chatID, "😔 Сейчас нет доступных полей.")
		return
	}

	h.sendMessage(ctx, b, chatID,
		fmt.Sprintf("🏟 У нас %d %s:", active, formatting.PluralizeFields(active)), kb.Build())
}

// HandleSchedule показывает выбор поля для расписания
func (h *Handlers) HandleSchedule(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendFieldPicker(ctx, b, update.Message.Chat.ID, "📅 Расписание какого поля показать?", actionScheduleField)
}

func (h *Handlers) sendFieldPicker(ctx context.Context, b *bot.Bot, chatID int64, title, action string) {
	fields, err := h.bookings.ListFields(ctx)
	if err != nil {
		h.reportError(ctx, b, chatID, "list_fields", err)
		return
	}

	kb := keyboard.NewBuilder()
	for _, f := range fields {
		if !f.IsActive {
			continue
		}
		kb.Row(keyboard.Button("⚽️ "+f.Name, callbackFor(action, f.ID)))
	}

	if kb.Len() == 0 {
		h.sendMessage(ctx, b, chatID, "😔 Сейчас нет доступных полей.")
		return
	}

	h.sendMessage(ctx, b, chatID, title, kb.Build())
}

// HandleMyBookings показывает предстоящие брони пользователя
func (h *Handlers) HandleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	bookings, err := h.bookings.ListUserBookings(ctx, user.ID)
	if err != nil {
		h.reportError(ctx, b, chatID, "list_user_bookings", err)
		return
	}

	now := h.now()
	upcoming := make([]*model.Booking, 0, len(bookings))
	for _, booking := range bookings {
		if booking.IsActive() && booking.EndTime.After(now) {
			upcoming = append(upcoming, booking)
		}
	}

	if len(upcoming) == 0 {
		h.sendMessage(ctx, b, chatID, "📋 У вас нет предстоящих броней.\n\nЗабронировать: /book")
		return
	}

	names := h.fieldNames(ctx)
	h.sendMessage(ctx, b, chatID, fmt.Sprintf("📋 У вас %d %s:", len(upcoming), formatting.PluralizeBookings(len(upcoming))))

	for _, booking := range upcoming {
		h.sendMessage(ctx, b, chatID, formatting.FormatBooking(booking, names[booking.FieldID]), bookingActions(booking))
	}
}

// bookingActions кнопки под карточкой брони владельца
func bookingActions(booking *model.Booking) models.ReplyMarkup {
	kb := keyboard.NewBuilder()
	if booking.Status == model.BookingStatusPending {
		kb.Row(keyboard.Button("🧾 Отправить чек", callbackFor(actionProof, booking.ID)))
		kb.Row(keyboard.Button("❌ Отменить", callbackFor(actionCancelBooking, booking.ID)))
	}
	if kb.Len() == 0 {
		return nil
	}
	return kb.Build()
}

// fieldNames ID поля -> название, пустая карта при ошибке
func (h *Handlers) fieldNames(ctx context.Context) map[int64]string {
	names := make(map[int64]string)
	fields, err := h.bookings.ListFields(ctx)
	if err != nil {
		h.logger.Warn("Failed to list fields", zap.Error(err))
		return names
	}
	for _, f := range fields {
		names[f.ID] = f.Name
	}
	return names
}

// HandleExport запрашивает период выгрузки (admin)
func (h *Handlers) HandleExport(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireStaff(ctx, b, update); !ok {
		return
	}

	h.stateManager.Start(update.Message.From.ID, state.StateExportRange, nil)

	today := formatting.FormatDate(h.now())
	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"📤 Введите период выгрузки в формате ДД.ММ.ГГГГ-ДД.ММ.ГГГГ\n\n"+
			"Например: "+today+"-"+today+"\n\n/cancel - отменить")
}

// HandleRecalc пересчитывает суммы неоплаченных броней (admin)
func (h *Handlers) HandleRecalc(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireStaff(ctx, b, update)
	if !ok {
		return
	}

	changed, err := h.bookings.RecalculateTotals(ctx, requesterOf(user))
	if err != nil {
		h.reportError(ctx, b, update.Message.Chat.ID, "recalculate_totals", err)
		return
	}

	if changed == 0 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Все суммы актуальны.")
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID,
		fmt.Sprintf("🔄 Пересчитано: %d %s.", changed, formatting.PluralizeBookings(changed)))
}

// HandlePaid отмечает бронь оплаченной наличными: /paid <id> (admin)
func (h *Handlers) HandlePaid(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireStaff(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	bookingID, ok := commandArgID(update.Message.Text)
	if !ok {
		h.sendError(ctx, b, chatID, "❌ Укажите номер брони: /paid 42")
		return
	}

	booking, err := h.bookings.MarkPaid(ctx, requesterOf(user), bookingID, service.PaymentInput{
		Type:   model.PaymentTypeFull,
		Method: model.PaymentMethodCash,
	})
	if err != nil {
		h.reportError(ctx, b, chatID, "mark_paid", err)
		return
	}

	h.sendMessage(ctx, b, chatID, formatting.FormatBooking(booking, h.fieldNames(ctx)[booking.FieldID]))
}

// commandArgID число после команды: "/paid 42" -> 42
func commandArgID(text string) (int64, bool) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return 0, false
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// helpHint подсказка для сообщений вне диалога
func helpHint(text string) string {
	if strings.HasPrefix(text, "/") {
		return "❓ Неизвестная команда. Список команд: /help"
	}
	return "Используйте /book чтобы забронировать поле или /help для справки."
}
