// Package auth содержит логику регистрации, входа и работы с сессиями.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jyotishdesk/jyotish-api/internal/lib/jwt"
	"github.com/jyotishdesk/jyotish-api/internal/lib/password"
	"github.com/jyotishdesk/jyotish-api/internal/models"
	"github.com/jyotishdesk/jyotish-api/internal/storage/repository"
)

// Ошибки бизнес-уровня, транслируемые обработчиками в HTTP-статусы.
var (
	// ErrEmailTaken пользователь с таким email уже зарегистрирован.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials неверный email или пароль.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrSessionRevoked сессия отозвана или истекла.
	ErrSessionRevoked = errors.New("session revoked or expired")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя вместе с начальными
	// правами на вопросы и бесплатной подпиской, возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// SessionStore описывает хранилище активных сессий.
type SessionStore interface {
	SetSession(ctx context.Context, sessionID, userUID string, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (string, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// AuthService отвечает за регистрацию, авторизацию и разрешение сессий.
type AuthService struct {
	users      UserRepository
	sessions   SessionStore
	tokenMaker jwt.Maker
	sessionTTL time.Duration
}

// New создает новый экземпляр AuthService.
func New(users UserRepository, sessions SessionStore, tokenMaker jwt.Maker, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		tokenMaker: tokenMaker,
		sessionTTL: sessionTTL,
	}
}

// Signup создает нового пользователя с хэшированием пароля и открывает сессию.
func (s *AuthService) Signup(ctx context.Context, name, email, rawPassword string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return "", ErrEmailTaken
		}
		return "", err
	}
	return s.openSession(ctx, uid)
}

// Signin проверяет пароль пользователя и открывает сессию.
func (s *AuthService) Signin(ctx context.Context, email, rawPassword string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.openSession(ctx, user.UID)
}

// ResolveSession проверяет сессионный токен: подпись, срок действия и
// наличие сессии в Redis. Возвращает UID пользователя.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (string, error) {
	claims, err := s.tokenMaker.ParseToken(token)
	if err != nil {
		return "", fmt.Errorf("resolve session: %w", err)
	}
	userUID, err := s.sessions.GetSession(ctx, claims.ID)
	if err != nil {
		return "", err
	}
	if userUID == "" || userUID != claims.UserUID {
		return "", ErrSessionRevoked
	}
	return userUID, nil
}

// Signout отзывает сессию токена. Невалидный токен не является ошибкой.
func (s *AuthService) Signout(ctx context.Context, token string) error {
	claims, err := s.tokenMaker.ParseToken(token)
	if err != nil {
		return nil
	}
	return s.sessions.DeleteSession(ctx, claims.ID)
}

func (s *AuthService) openSession(ctx context.Context, userUID string) (string, error) {
	token, sessionID, err := s.tokenMaker.GenerateToken(userUID)
	if err != nil {
		return "", err
	}
	if err := s.sessions.SetSession(ctx, sessionID, userUID, s.sessionTTL); err != nil {
		return "", err
	}
	return token, nil
}
