// Package services содержит бизнес-логику операций над учетными записями:
// регистрацию, вход, смену пароля, обновление профиля и административные
// операции. Хеширование паролей и выпуск токенов делегируются пакетам
// lib/password и lib/jwt, персистентность — репозиторию пользователей.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/user-account-service/internal/events"
	"github.com/magabrotheeeer/user-account-service/internal/lib/jwt"
	"github.com/magabrotheeeer/user-account-service/internal/lib/password"
	"github.com/magabrotheeeer/user-account-service/internal/lib/sl"
	"github.com/magabrotheeeer/user-account-service/internal/metrics"
	"github.com/magabrotheeeer/user-account-service/internal/models"
	"github.com/magabrotheeeer/user-account-service/internal/storage"
)

// Ошибки бизнес-логики, транслируемые в HTTP-статусы единым responder'ом.
var (
	// ErrInvalidCredentials возвращается при неверном email или пароле.
	// Сообщение едино для обоих случаев, чтобы не раскрывать, какой
	// из факторов не совпал.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrPasswordMismatch возвращается, когда подтверждение пароля не совпадает.
	ErrPasswordMismatch = errors.New("password confirmation does not match password")
	// ErrWrongPassword возвращается при неверном старом пароле в смене пароля.
	ErrWrongPassword = errors.New("password is incorrect")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (string, error)
	GetUserByUID(ctx context.Context, uid string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, uid, name, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, uid, passwordHash string) error
	DeleteUser(ctx context.Context, uid string) error
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// UserCache описывает кэш учетных записей. Может отсутствовать (nil).
type UserCache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// EventPublisher описывает издателя событий жизненного цикла учетных записей.
// Может отсутствовать (nil); публикация best-effort.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// AuthService отвечает за операции над учетными записями и выпуск токенов.
type AuthService struct {
	users     UserRepository
	jwtMaker  jwt.Maker
	cache     UserCache
	publisher EventPublisher
	log       *slog.Logger
	cacheTTL  time.Duration

	// dummyHash участвует в сравнении при неизвестном email, чтобы время
	// ответа не выдавало, существует ли учетная запись.
	dummyHash string
}

// NewAuthService создает новый экземпляр AuthService.
// cache и publisher опциональны: nil отключает кэширование и события.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, cache UserCache,
	publisher EventPublisher, log *slog.Logger, cacheTTL time.Duration) *AuthService {
	dummyHash, err := password.GetHash(uuid.NewString())
	if err != nil {
		dummyHash = ""
	}
	return &AuthService{
		users:     users,
		jwtMaker:  jwtMaker,
		cache:     cache,
		publisher: publisher,
		log:       log,
		cacheTTL:  cacheTTL,
		dummyHash: dummyHash,
	}
}

// Register создает нового пользователя с хешированием пароля и дефолтной
// ролью "user", затем выпускает токен сессии.
func (s *AuthService) Register(ctx context.Context, name, email, rawPassword, rawPasswordConfirm string) (string, error) {
	const op = "services.Register"
	if rawPassword != rawPasswordConfirm {
		return "", fmt.Errorf("%s: %w", op, ErrPasswordMismatch)
	}
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		UID:          uuid.NewString(),
		Name:         name,
		Email:        strings.TrimSpace(email),
		PasswordHash: hashed,
		Role:         models.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
	uid, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(uid, user.Name, user.Role)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.publish(events.UserRegistered, events.UserEvent{
		UID:        uid,
		Email:      user.Email,
		OccurredAt: time.Now().UTC(),
	})
	metrics.RegistrationsTotal.Inc()
	return token, nil
}

// Login проверяет пароль пользователя по email и выпускает токен сессии.
// Отсутствующий email и неверный пароль неразличимы для клиента.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, error) {
	const op = "services.Login"
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// Сравнение с фиктивным хешем выравнивает время ответа.
			_ = password.CompareHash(s.dummyHash, rawPassword)
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	token, err := s.jwtMaker.GenerateToken(user.UID, user.Name, user.Role)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return token, nil
}

// GetUser возвращает пользователя по uid, используя кэш на чтение.
func (s *AuthService) GetUser(ctx context.Context, uid string) (*models.User, error) {
	const op = "services.GetUser"
	if s.cache != nil {
		var cached models.User
		found, err := s.cache.Get(ctx, cacheKey(uid), &cached)
		if err != nil {
			s.log.Warn("user cache read failed", sl.Err(err))
		}
		if found {
			return &cached, nil
		}
	}
	user, err := s.users.GetUserByUID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey(uid), user, s.cacheTTL); err != nil {
			s.log.Warn("user cache write failed", sl.Err(err))
		}
	}
	return user, nil
}

// UpdateDetails обновляет имя и email пользователя.
func (s *AuthService) UpdateDetails(ctx context.Context, uid, name, email string) (*models.User, error) {
	const op = "services.UpdateDetails"
	user, err := s.users.UpdateUser(ctx, uid, name, strings.TrimSpace(email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, uid)
	return user, nil
}

// ChangePassword меняет пароль пользователя после проверки старого.
// Токен не перевыпускается: существующая сессия живет до естественного
// истечения.
func (s *AuthService) ChangePassword(ctx context.Context, uid, oldPassword, newPassword, newPasswordConfirm string) error {
	const op = "services.ChangePassword"
	user, err := s.users.GetUserByUID(ctx, uid)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, oldPassword); err != nil {
		return fmt.Errorf("%s: %w", op, ErrWrongPassword)
	}
	if newPassword != newPasswordConfirm {
		return fmt.Errorf("%s: %w", op, ErrPasswordMismatch)
	}
	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.UpdatePassword(ctx, uid, hashed); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, uid)
	return nil
}

// ListUsers возвращает все учетные записи.
func (s *AuthService) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "services.ListUsers"
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// DeleteUser удаляет учетную запись по uid.
func (s *AuthService) DeleteUser(ctx context.Context, uid string) error {
	const op = "services.DeleteUser"
	user, err := s.users.GetUserByUID(ctx, uid)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.DeleteUser(ctx, uid); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, uid)
	s.publish(events.UserDeleted, events.UserEvent{
		UID:        uid,
		Email:      user.Email,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

func (s *AuthService) publish(routingKey string, event events.UserEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(routingKey, event); err != nil {
		s.log.Warn("failed to publish account event",
			slog.String("routing_key", routingKey), sl.Err(err))
	}
}

func (s *AuthService) invalidate(ctx context.Context, uid string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, cacheKey(uid)); err != nil {
		s.log.Warn("user cache invalidation failed", sl.Err(err))
	}
}

func cacheKey(uid string) string {
	return "user:" + uid
}
