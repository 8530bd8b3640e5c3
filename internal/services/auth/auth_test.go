package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jyotishdesk/jyotish-api/internal/lib/jwt"
	"github.com/jyotishdesk/jyotish-api/internal/lib/password"
	"github.com/jyotishdesk/jyotish-api/internal/models"
	"github.com/jyotishdesk/jyotish-api/internal/storage/repository"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) SetSession(ctx context.Context, sessionID, userUID string, ttl time.Duration) error {
	args := m.Called(ctx, sessionID, userUID, ttl)
	return args.Error(0)
}

func (m *MockSessionStore) GetSession(ctx context.Context, sessionID string) (string, error) {
	args := m.Called(ctx, sessionID)
	return args.String(0), args.Error(1)
}

func (m *MockSessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

const testSecret = "test-secret-key"

func TestService_Signup(t *testing.T) {
	users := new(MockUserRepository)
	sessions := new(MockSessionStore)
	maker := jwt.NewMaker(testSecret, time.Hour)

	users.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		// Пароль хэшируется до сохранения.
		return u.Email == "asha@example.com" && u.PasswordHash != "secretpass" &&
			password.CompareHash(u.PasswordHash, "secretpass") == nil
	})).Return("uid-1", nil)
	sessions.On("SetSession", mock.Anything, mock.Anything, "uid-1", time.Hour).Return(nil)

	service := New(users, sessions, maker, time.Hour)
	token, err := service.Signup(context.Background(), "Asha", "asha@example.com", "secretpass")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	users.AssertExpectations(t)
	sessions.AssertExpectations(t)
}

func TestService_Signup_DuplicateEmail(t *testing.T) {
	users := new(MockUserRepository)
	sessions := new(MockSessionStore)
	maker := jwt.NewMaker(testSecret, time.Hour)

	users.On("RegisterUser", mock.Anything, mock.Anything).
		Return("", repository.ErrDuplicateEmail)

	service := New(users, sessions, maker, time.Hour)
	token, err := service.Signup(context.Background(), "Asha", "asha@example.com", "secretpass")

	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Empty(t, token)
	sessions.AssertNotCalled(t, "SetSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Signin(t *testing.T) {
	hash, err := password.GetHash("secretpass")
	assert.NoError(t, err)

	tests := []struct {
		name        string
		email       string
		pass        string
		setupMocks  func(*MockUserRepository, *MockSessionStore)
		expectedErr error
	}{
		{
			name:  "successful signin",
			email: "asha@example.com",
			pass:  "secretpass",
			setupMocks: func(u *MockUserRepository, s *MockSessionStore) {
				u.On("GetUserByEmail", mock.Anything, "asha@example.com").
					Return(&models.User{UID: "uid-1", Email: "asha@example.com", PasswordHash: hash}, nil)
				s.On("SetSession", mock.Anything, mock.Anything, "uid-1", time.Hour).Return(nil)
			},
		},
		{
			name:  "wrong password",
			email: "asha@example.com",
			pass:  "wrongpass",
			setupMocks: func(u *MockUserRepository, _ *MockSessionStore) {
				u.On("GetUserByEmail", mock.Anything, "asha@example.com").
					Return(&models.User{UID: "uid-1", Email: "asha@example.com", PasswordHash: hash}, nil)
			},
			expectedErr: ErrInvalidCredentials,
		},
		{
			name:  "unknown email",
			email: "nobody@example.com",
			pass:  "secretpass",
			setupMocks: func(u *MockUserRepository, _ *MockSessionStore) {
				u.On("GetUserByEmail", mock.Anything, "nobody@example.com").
					Return(nil, repository.ErrNotFound)
			},
			expectedErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			sessions := new(MockSessionStore)
			maker := jwt.NewMaker(testSecret, time.Hour)
			tt.setupMocks(users, sessions)

			service := New(users, sessions, maker, time.Hour)
			token, err := service.Signin(context.Background(), tt.email, tt.pass)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, token)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestService_ResolveSession(t *testing.T) {
	users := new(MockUserRepository)
	sessions := new(MockSessionStore)
	maker := jwt.NewMaker(testSecret, time.Hour)

	token, sessionID, err := maker.GenerateToken("uid-1")
	assert.NoError(t, err)

	sessions.On("GetSession", mock.Anything, sessionID).Return("uid-1", nil)

	service := New(users, sessions, maker, time.Hour)
	userUID, err := service.ResolveSession(context.Background(), token)

	assert.NoError(t, err)
	assert.Equal(t, "uid-1", userUID)
}

func TestService_ResolveSession_Revoked(t *testing.T) {
	users := new(MockUserRepository)
	sessions := new(MockSessionStore)
	maker := jwt.NewMaker(testSecret, time.Hour)

	token, sessionID, err := maker.GenerateToken("uid-1")
	assert.NoError(t, err)

	// Сессия удалена из Redis: токен ещё валиден, но доступ закрыт.
	sessions.On("GetSession", mock.Anything, sessionID).Return("", nil)

	service := New(users, sessions, maker, time.Hour)
	_, err = service.ResolveSession(context.Background(), token)

	assert.ErrorIs(t, err, ErrSessionRevoked)
}

func TestService_ResolveSession_BadToken(t *testing.T) {
	users := new(MockUserRepository)
	sessions := new(MockSessionStore)
	maker := jwt.NewMaker(testSecret, time.Hour)

	service := New(users, sessions, maker, time.Hour)
	_, err := service.ResolveSession(context.Background(), "not-a-token")

	assert.Error(t, err)
	sessions.AssertNotCalled(t, "GetSession", mock.Anything, mock.Anything)
}

func TestService_Signout(t *testing.T) {
	users := new(MockUserRepository)
	sessions := new(MockSessionStore)
	maker := jwt.NewMaker(testSecret, time.Hour)

	token, sessionID, err := maker.GenerateToken("uid-1")
	assert.NoError(t, err)

	sessions.On("DeleteSession", mock.Anything, sessionID).Return(nil)

	service := New(users, sessions, maker, time.Hour)
	assert.NoError(t, service.Signout(context.Background(), token))
	sessions.AssertExpectations(t)

	// Невалидный токен при выходе не является ошибкой.
	assert.NoError(t, service.Signout(context.Background(), "garbage"))
}

func TestService_Signin_StorageError(t *testing.T) {
	users := new(MockUserRepository)
	sessions := new(MockSessionStore)
	maker := jwt.NewMaker(testSecret, time.Hour)

	users.On("GetUserByEmail", mock.Anything, "asha@example.com").
		Return(nil, errors.New("db down"))

	service := New(users, sessions, maker, time.Hour)
	_, err := service.Signin(context.Background(), "asha@example.com", "secretpass")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
