package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Freeeeeet/consult_scheduler/internal/availability"
	"github.com/Freeeeeet/consult_scheduler/internal/model"
)

// Форматы callback data (лимит Telegram 64 байта)
const (
	cbNoop    = "noop"
	cbBook    = "book:"    // book:consultantID
	cbDay     = "day:"     // day:consultantID:Mon
	cbDate    = "date:"    // date:consultantID:2026-10-19
	cbSlot    = "slot:"    // slot:consultantID:2026-10-19:540 (минуты от начала дня)
	cbConfirm = "confirm:" // confirm:bookingID
	cbDecline = "decline:" // decline:bookingID
	cbDelete  = "delete:"  // delete:bookingID
)

func bookData(consultantID int64) string {
	return cbBook + strconv.FormatInt(consultantID, 10)
}

func dayData(consultantID int64, day string) string {
	return fmt.Sprintf("%s%d:%s", cbDay, consultantID, day)
}

func dateData(consultantID int64, date string) string {
	return fmt.Sprintf("%s%d:%s", cbDate, consultantID, date)
}

func slotData(consultantID int64, date string, start model.TimeOfDay) string {
	return fmt.Sprintf("%s%d:%s:%d", cbSlot, consultantID, date, availability.Minutes(start))
}

func bookingData(prefix string, id uuid.UUID) string {
	return prefix + id.String()
}

// callbackArgs разбирает "prefix:a:b:c" в аргументы, проверяя их количество
func callbackArgs(data, prefix string, n int) ([]string, error) {
	parts := strings.Split(strings.TrimPrefix(data, prefix), ":")
	if len(parts) != n {
		return nil, fmt.Errorf("invalid callback data format: %q", data)
	}
	return parts, nil
}

func parseConsultantID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid consultant id %q", s)
	}
	return id, nil
}

// slotSelection выбранный клиентом слот
type slotSelection struct {
	ConsultantID int64
	Date         string
	Start        model.TimeOfDay
}

func parseSlotData(data string) (slotSelection, error) {
	parts, err := callbackArgs(data, cbSlot, 3)
	if err != nil {
		return slotSelection{}, err
	}
	id, err := parseConsultantID(parts[0])
	if err != nil {
		return slotSelection{}, err
	}
	minutes, err := strconv.Atoi(parts[2])
	if err != nil || minutes < 0 || minutes >= 24*60 {
		return slotSelection{}, fmt.Errorf("invalid slot start %q", parts[2])
	}
	return slotSelection{ConsultantID: id, Date: parts[1], Start: availability.FromMinutes(minutes)}, nil
}

func parseBookingData(data, prefix string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimPrefix(data, prefix))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid booking id: %w", err)
	}
	return id, nil
}
