package bot

import (
	"context"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/consult_scheduler/internal/auth"
	"github.com/Freeeeeet/consult_scheduler/internal/model"
	"github.com/Freeeeeet/consult_scheduler/internal/service"
)

const defaultWeeksAhead = 4

// Controller Telegram интерфейс к сервисам: запись клиентов и обработка заявок консультантом
type Controller struct {
	bot          *bot.Bot
	users        *service.UserService
	bookings     *service.BookingService
	availability *service.AvailabilityService
	tokens       *auth.TokenManager
	weeksAhead   int
	logger       *zap.Logger
	now          func() time.Time
}

func NewController(
	botInstance *bot.Bot,
	users *service.UserService,
	bookings *service.BookingService,
	availabilityService *service.AvailabilityService,
	tokens *auth.TokenManager,
	weeksAhead int,
	logger *zap.Logger,
) *Controller {
	if weeksAhead <= 0 {
		weeksAhead = defaultWeeksAhead
	}
	return &Controller{
		bot:          botInstance,
		users:        users,
		bookings:     bookings,
		availability: availabilityService,
		tokens:       tokens,
		weeksAhead:   weeksAhead,
		logger:       logger,
		now:          time.Now,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *Controller) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/consultants", bot.MatchTypeExact, c.handleConsultants)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mybookings", bot.MatchTypeExact, c.handleMyBookings)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/timezone", bot.MatchTypePrefix, c.handleTimeZone)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/token", bot.MatchTypeExact, c.handleToken)

	// Команды для консультантов
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/becomeconsultant", bot.MatchTypeExact, c.handleBecomeConsultant)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/availability", bot.MatchTypeExact, c.handleAvailability)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/requests", bot.MatchTypeExact, c.handleRequests)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.handleCallbackQuery)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *Controller) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "consultants", Description: "👥 Записаться к консультанту"},
		{Command: "mybookings", Description: "📅 Мои записи"},
		{Command: "timezone", Description: "🌍 Мой часовой пояс"},
		{Command: "token", Description: "🔑 Токен для веб-редактора"},
		{Command: "becomeconsultant", Description: "🎓 Стать консультантом"},
		{Command: "availability", Description: "🗓 Моё расписание (консультант)"},
		{Command: "requests", Description: "📥 Заявки на встречи (консультант)"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("Bot commands menu set")
	return nil
}

// Start запускает бота; блокируется до отмены ctx
func (c *Controller) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}

// requireUser возвращает зарегистрированного пользователя сообщения
func (c *Controller) requireUser(ctx context.Context, b *bot.Bot, msg *models.Message) (*model.User, bool) {
	if msg == nil || msg.From == nil {
		return nil, false
	}

	user, err := c.users.GetByTelegramID(ctx, msg.From.ID)
	if err != nil {
		c.logger.Error("Failed to get user", zap.Int64("telegram_id", msg.From.ID), zap.Error(err))
		c.send(ctx, b, msg.Chat.ID, userMessage(err), nil)
		return nil, false
	}
	if user == nil {
		c.send(ctx, b, msg.Chat.ID, "❌ Пользователь не найден. Используйте /start для регистрации.", nil)
		return nil, false
	}
	return user, true
}

// requireConsultant проверяет что пользователь является консультантом
func (c *Controller) requireConsultant(ctx context.Context, b *bot.Bot, msg *models.Message) (*model.User, bool) {
	user, ok := c.requireUser(ctx, b, msg)
	if !ok {
		return nil, false
	}
	if !user.IsConsultant() {
		c.send(ctx, b, msg.Chat.ID, "❌ Эта команда доступна только консультантам.\n\nСтать консультантом: /becomeconsultant", nil)
		return nil, false
	}
	return user, true
}

// send отправляет сообщение и логирует если не удалось
func (c *Controller) send(ctx context.Context, b *bot.Bot, chatID int64, text string, keyboard *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}
	if _, err := b.SendMessage(ctx, params); err != nil {
		c.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// edit заменяет текст сообщения с кнопками; "message is not modified" не считается ошибкой
func (c *Controller) edit(ctx context.Context, b *bot.Bot, msg *models.Message, text string, keyboard *models.InlineKeyboardMarkup) {
	params := &bot.EditMessageTextParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      text,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}
	_, err := b.EditMessageText(ctx, params)
	if err != nil && !isMessageNotModified(err) {
		c.logger.Error("Failed to edit message", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
	}
}

func isMessageNotModified(err error) bool {
	return strings.Contains(err.Error(), "message is not modified")
}

// location часовой пояс пользователя; пусто = UTC
func location(u *model.User) string {
	if u == nil || u.TimeZone == "" {
		return "UTC"
	}
	return u.TimeZone
}
