package controller

import (
	"context"

	"github.com/Freeeeeet/pitch_booking/internal/controller/handlers"
	"github.com/Freeeeeet/pitch_booking/internal/controller/state"
	"github.com/Freeeeeet/pitch_booking/internal/metrics"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	userService handlers.UserDirectory,
	bookingService handlers.BookingEngine,
	adminChatIDs []int64,
	m *metrics.Metrics,
	logger *zap.Logger,
) *BotController {
	// Создаём обработчики команд с менеджером состояний диалогов
	cmdHandlers := handlers.NewHandlers(
		userService,
		bookingService,
		state.NewManager(),
		adminChatIDs,
		m,
		logger,
	)

	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		logger:   logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	h := c.handlers
	command := func(pattern string, fn bot.HandlerFunc) {
		c.bot.RegisterHandler(bot.HandlerTypeMessageText, pattern, bot.MatchTypeExact, h.Observe(pattern, fn))
	}

	// Регистрируем команды
	command("/start", h.HandleStart)
	command("/help", h.HandleHelp)
	command("/cancel", h.HandleCancel)
	command("/book", h.HandleBook)
	command("/mybookings", h.HandleMyBookings)
	command("/fields", h.HandleFields)
	command("/schedule", h.HandleSchedule)
	command("/price", h.HandlePrice)

	// Команды для администраторов
	command("/export", h.HandleExport)
	command("/recalc", h.HandleRecalc)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/paid", bot.MatchTypePrefix, h.Observe("/paid", h.HandlePaid))

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, h.Observe("text", h.HandleTextMessage))

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, h.Observe("callback", h.HandleCallbackQuery))

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "book", Description: "⚽️ Забронировать поле"},
		{Command: "mybookings", Description: "📋 Мои брони"},
		{Command: "fields", Description: "🏟 Список полей"},
		{Command: "schedule", Description: "📅 Расписание поля"},
		{Command: "price", Description: "💰 Тарифы"},
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "cancel", Description: "✖️ Отменить ввод"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота, блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
