package bot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/consult_scheduler/internal/auth"
	"github.com/Freeeeeet/consult_scheduler/internal/model"
	"github.com/Freeeeeet/consult_scheduler/internal/render"
	"github.com/Freeeeeet/consult_scheduler/internal/service"
)

// handleStart обрабатывает команду /start
func (c *Controller) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	user, err := c.users.RegisterUser(ctx, msg.From.ID, msg.From.Username, msg.From.FirstName, msg.From.LastName, msg.From.LanguageCode)
	if err != nil {
		c.logger.Error("Failed to register user", zap.Int64("telegram_id", msg.From.ID), zap.Error(err))
		c.send(ctx, b, msg.Chat.ID, userMessage(err), nil)
		return
	}

	text := fmt.Sprintf("👋 Привет, %s!\n\nЗдесь можно записаться на консультацию.\n\n"+
		"👥 /consultants — выбрать консультанта\n"+
		"📅 /mybookings — мои записи\n"+
		"❓ /help — все команды", user.DisplayName())
	c.send(ctx, b, msg.Chat.ID, text, nil)
}

// handleHelp обрабатывает команду /help
func (c *Controller) handleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	text := "📖 Команды\n\n" +
		"Клиент:\n" +
		"/consultants — записаться к консультанту\n" +
		"/mybookings — мои записи\n" +
		"/timezone Europe/Moscow — указать часовой пояс\n\n" +
		"Консультант:\n" +
		"/becomeconsultant — стать консультантом\n" +
		"/availability — моё недельное расписание\n" +
		"/requests — заявки на встречи\n" +
		"/token — токен для веб-редактора расписания"
	c.send(ctx, b, update.Message.Chat.ID, text, nil)
}

// handleConsultants показывает консультантов для записи
func (c *Controller) handleConsultants(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if _, ok := c.requireUser(ctx, b, msg); !ok {
		return
	}

	consultants, err := c.users.Consultants(ctx)
	if err != nil {
		c.logger.Error("Failed to list consultants", zap.Error(err))
		c.send(ctx, b, msg.Chat.ID, userMessage(err), nil)
		return
	}
	if len(consultants) == 0 {
		c.send(ctx, b, msg.Chat.ID, "📭 Пока нет ни одного консультанта.", nil)
		return
	}

	kb := NewBuilder()
	for _, u := range consultants {
		kb.Row(Button("👤 "+u.DisplayName(), bookData(u.ID)))
	}
	c.send(ctx, b, msg.Chat.ID, "👥 Выберите консультанта:", kb.Build())
}

// handleMyBookings показывает записи пользователя по статусам
func (c *Controller) handleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	user, ok := c.requireUser(ctx, b, msg)
	if !ok {
		return
	}

	grouped, err := c.bookings.List(ctx, auth.ForUser(user))
	if err != nil {
		c.logger.Error("Failed to list bookings", zap.Int64("user_id", user.ID), zap.Error(err))
		c.send(ctx, b, msg.Chat.ID, userMessage(err), nil)
		return
	}

	all := make([]*model.BookingRecord, 0, len(grouped.Pending)+len(grouped.Confirmed)+len(grouped.Declined))
	all = append(all, grouped.Pending...)
	all = append(all, grouped.Confirmed...)
	all = append(all, grouped.Declined...)
	if len(all) == 0 {
		c.send(ctx, b, msg.Chat.ID, "📭 У вас пока нет записей.\n\nЗаписаться: /consultants", nil)
		return
	}

	for _, rec := range all {
		counterpart := c.displayName(ctx, rec.ConsultantID)
		if user.IsConsultant() && rec.ConsultantID == user.ID {
			counterpart = rec.ClientName
		}

		var kb *models.InlineKeyboardMarkup
		if rec.Status == model.BookingStatusPending && rec.ClientID == user.ID {
			kb = NewBuilder().Row(Button("🗑 Отменить заявку", bookingData(cbDelete, rec.ID))).Build()
		}
		c.send(ctx, b, msg.Chat.ID, formatBooking(rec, counterpart), kb)
	}
}

// handleTimeZone задаёт часовой пояс: /timezone Europe/Moscow
func (c *Controller) handleTimeZone(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	user, ok := c.requireUser(ctx, b, msg)
	if !ok {
		return
	}

	tz := strings.TrimSpace(strings.TrimPrefix(msg.Text, "/timezone"))
	if tz == "" {
		c.send(ctx, b, msg.Chat.ID, fmt.Sprintf("🌍 Ваш часовой пояс: %s\n\nИзменить: /timezone Europe/Moscow", location(user)), nil)
		return
	}

	if _, err := c.users.SetTimeZone(ctx, user.ID, tz); err != nil {
		c.send(ctx, b, msg.Chat.ID, "❌ Неизвестный часовой пояс. Пример: /timezone Europe/Moscow", nil)
		return
	}
	c.send(ctx, b, msg.Chat.ID, "✅ Часовой пояс сохранён: "+tz, nil)
}

// handleToken выдаёт токен для HTTP API (веб-редактор расписания)
func (c *Controller) handleToken(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	user, ok := c.requireUser(ctx, b, msg)
	if !ok {
		return
	}
	if c.tokens == nil {
		c.send(ctx, b, msg.Chat.ID, "❌ Веб-доступ отключён.", nil)
		return
	}

	token, err := c.tokens.Issue(auth.ForUser(user), c.now())
	if err != nil {
		c.logger.Error("Failed to issue token", zap.Int64("user_id", user.ID), zap.Error(err))
		c.send(ctx, b, msg.Chat.ID, userMessage(err), nil)
		return
	}
	c.send(ctx, b, msg.Chat.ID, "🔑 Ваш токен (заголовок Authorization: Bearer ...):\n\n"+token, nil)
}

// handleBecomeConsultant делает пользователя консультантом
func (c *Controller) handleBecomeConsultant(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if _, ok := c.requireUser(ctx, b, msg); !ok {
		return
	}

	user, err := c.users.MakeConsultant(ctx, msg.From.ID)
	if err != nil {
		c.logger.Error("Failed to make consultant", zap.Int64("telegram_id", msg.From.ID), zap.Error(err))
		c.send(ctx, b, msg.Chat.ID, userMessage(err), nil)
		return
	}

	c.send(ctx, b, msg.Chat.ID, fmt.Sprintf("🎓 %s, теперь вы консультант!\n\n"+
		"🗓 /availability — посмотреть расписание\n"+
		"🔑 /token — токен для веб-редактора расписания\n"+
		"📥 /requests — заявки на встречи", user.DisplayName()), nil)
}

// handleAvailability присылает картинку недельного расписания консультанта
func (c *Controller) handleAvailability(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	user, ok := c.requireConsultant(ctx, b, msg)
	if !ok {
		return
	}

	doc, err := c.availability.Load(ctx, user.ID)
	if service.IsNotSet(err) {
		c.send(ctx, b, msg.Chat.ID, "📭 Расписание ещё не задано.\n\nОткройте веб-редактор с токеном из /token.", nil)
		return
	}
	if err != nil {
		c.logger.Error("Failed to load availability", zap.Int64("consultant_id", user.ID), zap.Error(err))
		c.send(ctx, b, msg.Chat.ID, userMessage(err), nil)
		return
	}

	blocks, err := availabilityBlocks(doc)
	if err != nil {
		c.logger.Error("Stored availability is invalid", zap.Int64("consultant_id", user.ID), zap.Error(err))
		c.send(ctx, b, msg.Chat.ID, userMessage(err), nil)
		return
	}

	caption := "🗓 Ваше расписание\n\n" + formatBlocks(blocks)
	image, err := render.AvailabilityImage(blocks, nil, render.Options{Title: "Availability"})
	if err != nil {
		c.logger.Warn("Failed to render availability image", zap.Error(err))
		c.send(ctx, b, msg.Chat.ID, caption, nil)
		return
	}

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:  msg.Chat.ID,
		Photo:   &models.InputFileUpload{Filename: "availability.png", Data: bytes.NewReader(image)},
		Caption: caption,
	})
	if err != nil {
		c.logger.Error("Failed to send availability image", zap.Error(err))
		c.send(ctx, b, msg.Chat.ID, caption, nil)
	}
}

// handleRequests показывает заявки, ожидающие решения консультанта
func (c *Controller) handleRequests(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	user, ok := c.requireConsultant(ctx, b, msg)
	if !ok {
		return
	}

	pending, err := c.bookings.Pending(ctx, auth.ForUser(user))
	if err != nil {
		c.logger.Error("Failed to list pending bookings", zap.Int64("consultant_id", user.ID), zap.Error(err))
		c.send(ctx, b, msg.Chat.ID, userMessage(err), nil)
		return
	}
	if len(pending) == 0 {
		c.send(ctx, b, msg.Chat.ID, "📭 Новых заявок нет.", nil)
		return
	}

	for _, rec := range pending {
		c.send(ctx, b, msg.Chat.ID, formatBooking(rec, rec.ClientName), decisionKeyboard(rec))
	}
}

func decisionKeyboard(rec *model.BookingRecord) *models.InlineKeyboardMarkup {
	return NewBuilder().Row(
		Button("✅ Подтвердить", bookingData(cbConfirm, rec.ID)),
		Button("🚫 Отклонить", bookingData(cbDecline, rec.ID)),
	).Build()
}

// displayName имя пользователя по ID; пусто если не удалось получить
func (c *Controller) displayName(ctx context.Context, userID int64) string {
	u, err := c.users.GetByID(ctx, userID)
	if err != nil {
		return ""
	}
	return u.DisplayName()
}
