package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/pitch_booking/internal/model"
	"go.uber.org/zap"
)

// UserStore хранилище пользователей
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	ListByIDs(ctx context.Context, ids []int64) (map[int64]*model.User, error)
}

type UserService struct {
	userRepo UserStore
	admins   map[int64]bool // Telegram ID, которые получают роль admin при /start
	logger   *zap.Logger
}

func NewUserService(userRepo UserStore, adminTelegramIDs []int64, logger *zap.Logger) *UserService {
	admins := make(map[int64]bool, len(adminTelegramIDs))
	for _, id := range adminTelegramIDs {
		admins[id] = true
	}

	return &UserService{
		userRepo: userRepo,
		admins:   admins,
		logger:   logger,
	}
}

// RegisterUser регистрирует или обновляет пользователя
func (s *UserService) RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName, languageCode string) (*model.User, error) {
	// Проверяем существует ли пользователь
	existingUser, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	// Если пользователь уже существует, обновляем данные
	if existingUser != nil {
		existingUser.Username = username
		existingUser.FirstName = firstName
		existingUser.LastName = lastName
		existingUser.LanguageCode = languageCode
		if s.admins[telegramID] && !existingUser.IsPrivileged() {
			existingUser.Role = model.RoleAdmin
		}

		err = s.userRepo.Update(ctx, existingUser)
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}

		s.logger.Info("User updated",
			zap.Int64("telegram_id", telegramID),
			zap.String("username", username),
			zap.String("role", string(existingUser.Role)),
		)

		return existingUser, nil
	}

	// Создаём нового пользователя
	user := &model.User{
		TelegramID:   telegramID,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		LanguageCode: languageCode,
		Role:         model.RoleUser,
	}
	if s.admins[telegramID] {
		user.Role = model.RoleAdmin
	}

	err = s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("New user registered",
		zap.Int64("user_id", user.ID),
		zap.Int64("telegram_id", telegramID),
		zap.String("username", username),
		zap.String("role", string(user.Role)),
	)

	return user, nil
}

// GetByTelegramID получает пользователя по Telegram ID
func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	return s.userRepo.GetByTelegramID(ctx, telegramID)
}

// GetByID получает пользователя по ID
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// Names возвращает отображаемые имена пользователей по ID
func (s *UserService) Names(ctx context.Context, ids []int64) (map[int64]string, error) {
	users, err := s.userRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(users))
	for id, user := range users {
		names[id] = DisplayName(user)
	}
	return names, nil
}

// SetRole меняет роль пользователя, доступно только owner
func (s *UserService) SetRole(ctx context.Context, req Requester, userID int64, role model.Role) (*model.User, error) {
	if req.Role != model.RoleOwner {
		return nil, fmt.Errorf("%w: only owner can change roles", ErrForbidden)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}

	user.Role = role
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.Info("User role changed",
		zap.Int64("user_id", user.ID),
		zap.Int64("requester_id", req.UserID),
		zap.String("role", string(role)),
	)

	return user, nil
}

// DisplayName имя для показа в сообщениях и отчётах
func DisplayName(user *model.User) string {
	if user == nil {
		return ""
	}
	name := user.FirstName
	if user.LastName != "" {
		name += " " + user.LastName
	}
	if name == "" && user.Username != "" {
		name = "@" + user.Username
	}
	if name == "" {
		name = fmt.Sprintf("#%d", user.ID)
	}
	return name
}
