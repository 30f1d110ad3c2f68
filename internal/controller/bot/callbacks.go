package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/consult_scheduler/internal/availability"
	"github.com/Freeeeeet/consult_scheduler/internal/auth"
	"github.com/Freeeeeet/consult_scheduler/internal/model"
)

var errBadCallback = errors.New("invalid callback data")

// callbackContext данные нажатой кнопки
type callbackContext struct {
	ctx      context.Context
	bot      *bot.Bot
	callback *models.CallbackQuery
	message  *models.Message
	user     *model.User
}

// handleCallbackQuery распределяет нажатия inline кнопок
func (c *Controller) handleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}
	data := callback.Data

	c.logger.Debug("Routing callback",
		zap.String("data", data),
		zap.Int64("telegram_id", callback.From.ID),
	)

	if data == cbNoop {
		answer(ctx, b, callback.ID, "", false)
		return
	}

	cc := &callbackContext{ctx: ctx, bot: b, callback: callback, message: callback.Message.Message}
	if cc.message == nil {
		answer(ctx, b, callback.ID, "❌ Сообщение устарело", true)
		return
	}

	user, err := c.users.GetByTelegramID(ctx, callback.From.ID)
	if err != nil || user == nil {
		answer(ctx, b, callback.ID, "❌ Используйте /start для регистрации", true)
		return
	}
	cc.user = user

	switch {
	case strings.HasPrefix(data, cbBook):
		err = c.onBook(cc)
	case strings.HasPrefix(data, cbDay):
		err = c.onDay(cc)
	case strings.HasPrefix(data, cbDate):
		err = c.onDate(cc)
	case strings.HasPrefix(data, cbSlot):
		err = c.onSlot(cc)
	case strings.HasPrefix(data, cbConfirm):
		err = c.onDecision(cc, cbConfirm, model.BookingStatusConfirmed)
	case strings.HasPrefix(data, cbDecline):
		err = c.onDecision(cc, cbDecline, model.BookingStatusDeclined)
	case strings.HasPrefix(data, cbDelete):
		err = c.onDelete(cc)
	default:
		err = fmt.Errorf("%w: %q", errBadCallback, data)
	}

	if err != nil {
		if errors.Is(err, errBadCallback) {
			c.logger.Warn("Unknown callback", zap.String("data", data), zap.Error(err))
			answer(ctx, b, callback.ID, "❌ Неверный формат", true)
			return
		}
		c.logger.Info("Callback failed", zap.String("data", data), zap.Error(err))
		answer(ctx, b, callback.ID, userMessage(err), true)
		return
	}
	answer(ctx, b, callback.ID, "", false)
}

// answer отвечает на callback query
func answer(ctx context.Context, b *bot.Bot, callbackID, text string, alert bool) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       alert,
	})
}

// onDecision подтверждение или отклонение заявки консультантом
func (c *Controller) onDecision(cc *callbackContext, prefix string, status model.BookingStatus) error {
	id, err := parseBookingData(cc.callback.Data, prefix)
	if err != nil {
		return fmt.Errorf("%w: %w", errBadCallback, err)
	}

	rec, err := c.bookings.UpdateStatus(cc.ctx, auth.ForUser(cc.user), id, status)
	if err != nil {
		return err
	}

	c.edit(cc.ctx, cc.bot, cc.message, formatBooking(rec, rec.ClientName), nil)
	return nil
}

// onDelete отмена своей заявки клиентом
func (c *Controller) onDelete(cc *callbackContext) error {
	id, err := parseBookingData(cc.callback.Data, cbDelete)
	if err != nil {
		return fmt.Errorf("%w: %w", errBadCallback, err)
	}

	if err := c.bookings.Delete(cc.ctx, auth.ForUser(cc.user), id); err != nil {
		return err
	}

	c.edit(cc.ctx, cc.bot, cc.message, "🗑 Заявка отменена.", nil)
	return nil
}

// availabilityBlocks восстанавливает блоки из сохранённого документа
func availabilityBlocks(doc *model.WeeklyAvailabilityDocument) ([]model.AvailabilityBlock, error) {
	if doc == nil {
		return nil, nil
	}
	return availability.Deserialize(doc.Blocks, 1)
}
