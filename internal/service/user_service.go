package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/consult_scheduler/internal/model"
)

type UserService struct {
	users  UserStore
	logger *zap.Logger
}

func NewUserService(users UserStore, logger *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

// RegisterUser регистрирует или обновляет пользователя Telegram
func (s *UserService) RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName, languageCode string) (*model.User, error) {
	existingUser, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, storeErr("check existing user", err)
	}

	if existingUser != nil {
		existingUser.Username = username
		existingUser.FirstName = firstName
		existingUser.LastName = lastName
		existingUser.LanguageCode = languageCode

		if err := s.users.Update(ctx, existingUser); err != nil {
			return nil, storeErr("update user", err)
		}

		s.logger.Debug("User updated",
			zap.Int64("telegram_id", telegramID),
			zap.String("username", username),
		)
		return existingUser, nil
	}

	user := &model.User{
		TelegramID:   telegramID,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		LanguageCode: languageCode,
		Role:         model.RoleClient,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, storeErr("create user", err)
	}

	s.logger.Info("New user registered",
		zap.Int64("user_id", user.ID),
		zap.Int64("telegram_id", telegramID),
		zap.String("username", username),
	)

	return user, nil
}

// GetByID получает пользователя по ID
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get user", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetByTelegramID получает пользователя по Telegram ID; незарегистрированный: (nil, nil)
func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, storeErr("get user", err)
	}
	return user, nil
}

// MakeConsultant делает пользователя консультантом
func (s *UserService) MakeConsultant(ctx context.Context, telegramID int64) (*model.User, error) {
	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, storeErr("get user", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.IsConsultant() {
		return user, nil
	}

	user.Role = model.RoleConsultant
	if err := s.users.Update(ctx, user); err != nil {
		return nil, storeErr("update user", err)
	}

	s.logger.Info("User became consultant",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
	)

	return user, nil
}

// Consultants список консультантов
func (s *UserService) Consultants(ctx context.Context) ([]*model.User, error) {
	users, err := s.users.ListByRole(ctx, model.RoleConsultant)
	if err != nil {
		return nil, storeErr("list consultants", err)
	}
	return users, nil
}

// SetTimeZone задаёт часовой пояс пользователя (IANA, например Europe/Moscow)
func (s *UserService) SetTimeZone(ctx context.Context, userID int64, tz string) (*model.User, error) {
	tz = strings.TrimSpace(tz)
	if _, err := time.LoadLocation(tz); err != nil || tz == "" {
		return nil, fmt.Errorf("%w: unknown time zone %q", model.ErrValidation, tz)
	}

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.TimeZone = tz
	if err := s.users.Update(ctx, user); err != nil {
		return nil, storeErr("update user", err)
	}

	s.logger.Info("User time zone changed",
		zap.Int64("user_id", userID),
		zap.String("time_zone", tz),
	)
	return user, nil
}
