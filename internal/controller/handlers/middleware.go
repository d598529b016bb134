package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/Freeeeeet/pitch_booking/internal/model"
	"github.com/Freeeeeet/pitch_booking/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Observe считает обработанные обновления в метриках
func (h *Handlers) Observe(route string, next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		next(ctx, b, update)
		h.metrics.IncRequest("telegram", route, "handled")
	}
}

// requireUser проверяет что пользователь существует
// Возвращает user и true если OK, nil и false если нет
func (h *Handlers) requireUser(ctx context.Context, b *bot.Bot, update *models.Update) (*model.User, bool) {
	if update.Message == nil || update.Message.From == nil {
		return nil, false
	}

	user, err := h.userByTelegramID(ctx, update.Message.From.ID)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, userErrorText(err))
		return nil, false
	}
	return user, true
}

// requireStaff пропускает только admin/owner
func (h *Handlers) requireStaff(ctx context.Context, b *bot.Bot, update *models.Update) (*model.User, bool) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return nil, false
	}

	if !user.IsPrivileged() {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Эта команда доступна только администраторам.")
		return nil, false
	}

	return user, true
}

var errNotRegistered = errors.New("user is not registered")

func (h *Handlers) userByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	user, err := h.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		h.logger.Error("Failed to get user", zap.Int64("telegram_id", telegramID), zap.Error(err))
		return nil, err
	}
	if user == nil {
		return nil, errNotRegistered
	}
	return user, nil
}

// userErrorText текст ошибки для пользователя.
// Внутренние ошибки не раскрываются.
func userErrorText(err error) string {
	switch {
	case errors.Is(err, errNotRegistered):
		return "❌ Пользователь не найден. Используйте /start для регистрации."
	case errors.Is(err, service.ErrSlotTaken):
		return "❌ Это время уже занято. Выберите другой интервал."
	case errors.Is(err, service.ErrForbidden):
		return "❌ Недостаточно прав для этого действия."
	case errors.Is(err, service.ErrNotFound):
		return "❌ Не найдено: " + detail(err, service.ErrNotFound)
	case errors.Is(err, service.ErrValidation):
		return "❌ " + detail(err, service.ErrValidation)
	}
	return "❌ Произошла ошибка. Попробуйте позже."
}

// detail текст после "класс ошибки: "
func detail(err, class error) string {
	msg := err.Error()
	if i := strings.Index(msg, class.Error()+": "); i >= 0 {
		return msg[i+len(class.Error())+2:]
	}
	return msg
}

// reportError логирует внутреннюю ошибку и отвечает пользователю
func (h *Handlers) reportError(ctx context.Context, b *bot.Bot, chatID int64, operation string, err error) {
	if !service.IsUserError(err) && !errors.Is(err, errNotRegistered) {
		h.logger.Error("Operation failed",
			zap.String("operation", operation),
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
	h.sendError(ctx, b, chatID, userErrorText(err))
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string, markup ...models.ReplyMarkup) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if len(markup) > 0 {
		params.ReplyMarkup = markup[0]
	}

	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// answer отвечает на callback query, alert для ошибок
func (h *Handlers) answer(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, text string, alert bool) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callback.ID,
		Text:            text,
		ShowAlert:       alert,
	})
	if err != nil {
		h.logger.Warn("Failed to answer callback", zap.String("data", callback.Data), zap.Error(err))
	}
}
