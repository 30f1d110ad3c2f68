package bot

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/consult_scheduler/internal/events"
	"github.com/Freeeeeet/consult_scheduler/internal/model"
)

type sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

type userLookup interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// Notifier сообщает участникам о событиях бронирования в Telegram
type Notifier struct {
	sender sender
	users  userLookup
	logger *zap.Logger
}

func NewNotifier(s sender, users userLookup, logger *zap.Logger) *Notifier {
	return &Notifier{sender: s, users: users, logger: logger}
}

// Publish отправляет уведомление второй стороне бронирования
func (n *Notifier) Publish(ctx context.Context, ev events.Event) error {
	rec := ev.Booking

	var (
		recipientID int64
		text        string
		keyboard    *models.InlineKeyboardMarkup
	)
	switch ev.Type {
	case events.BookingCreated:
		recipientID = rec.ConsultantID
		text = "📥 Новая заявка на встречу\n\n" + formatBooking(&rec, rec.ClientName)
		keyboard = decisionKeyboard(&rec)
	case events.BookingConfirmed:
		recipientID = rec.ClientID
		text = "✅ Консультант подтвердил встречу\n\n" + formatBooking(&rec, "")
	case events.BookingDeclined:
		recipientID = rec.ClientID
		text = "🚫 Консультант отклонил заявку\n\n" + formatBooking(&rec, "")
	case events.BookingDeleted:
		recipientID = rec.ConsultantID
		text = fmt.Sprintf("🗑 %s отменил(а) заявку на %s %s", rec.ClientName, dayLabel(rec.Day), rec.Date)
	default:
		return nil
	}

	recipient, err := n.users.GetByID(ctx, recipientID)
	if err != nil {
		return fmt.Errorf("get recipient: %w", err)
	}
	if recipient == nil || recipient.TelegramID == 0 {
		n.logger.Debug("Notification recipient has no telegram chat", zap.Int64("user_id", recipientID))
		return nil
	}

	params := &bot.SendMessageParams{
		ChatID: recipient.TelegramID,
		Text:   text,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}
	if _, err := n.sender.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	n.logger.Debug("Notification sent",
		zap.String("event_type", string(ev.Type)),
		zap.String("booking_id", rec.ID.String()),
		zap.Int64("user_id", recipientID),
	)
	return nil
}
