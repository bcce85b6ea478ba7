package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"mediablog/internal/config"
	"mediablog/internal/models"
	"mediablog/internal/repository"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecretKey:  "test-secret-key",
		TokenDuration: time.Hour,
	}
}

func TestAuthService_SignupTokenRoundTrip(t *testing.T) {
	// Arrange
	userRepo := new(mockUserRepository)
	svc := NewAuthService(userRepo, testAuthConfig())

	userRepo.On("GetUserByEmail", mock.Anything, "alice@example.com").
		Return(nil, fmt.Errorf("%w: email alice@example.com", repository.ErrUserNotFound))

	// репозиторий присваивает id при создании
	userRepo.On("CreateUser", mock.Anything, mock.Anything, "pass1").
		Run(func(args mock.Arguments) {
			user := args.Get(1).(*models.User)
			user.UserID = "user-123"
		}).
		Return(nil)

	// Act
	token, err := svc.Signup(context.Background(), SignupRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "pass1",
	})

	// Assert: проверка токена возвращает id созданного пользователя
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)

	userRepo.AssertExpectations(t)
}

func TestAuthService_SignupExistingEmail(t *testing.T) {
	// Arrange
	userRepo := new(mockUserRepository)
	svc := NewAuthService(userRepo, testAuthConfig())

	userRepo.On("GetUserByEmail", mock.Anything, "alice@example.com").
		Return(&models.User{UserID: "user-123", Email: "alice@example.com"}, nil)

	// Act
	token, err := svc.Signup(context.Background(), SignupRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "pass1",
	})

	// Assert: второй пользователь не создается
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "уже существует")
	assert.Empty(t, token)

	userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
}

// сбой хранилища при проверке email не должен выглядеть как "email свободен"
func TestAuthService_SignupStoreLookupFailure(t *testing.T) {
	// Arrange
	userRepo := new(mockUserRepository)
	svc := NewAuthService(userRepo, testAuthConfig())

	userRepo.On("GetUserByEmail", mock.Anything, "alice@example.com").
		Return(nil, fmt.Errorf("ошибка при получении пользователя по email: БД недоступна"))

	// Act
	token, err := svc.Signup(context.Background(), SignupRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "pass1",
	})

	// Assert: регистрация прерывается, пользователь не создается
	assert.Error(t, err)
	assert.NotContains(t, err.Error(), "уже существует")
	assert.Empty(t, token)

	userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_LoginIssuesValidToken(t *testing.T) {
	// Arrange
	userRepo := new(mockUserRepository)
	svc := NewAuthService(userRepo, testAuthConfig())

	userRepo.On("VerifyPassword", mock.Anything, "alice@example.com", "pass1").
		Return(&models.User{UserID: "user-123", Email: "alice@example.com"}, nil)

	// Act
	token, err := svc.Login(context.Background(), "alice@example.com", "pass1")

	// Assert
	require.NoError(t, err)

	userID, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestAuthService_LoginBadCredentials(t *testing.T) {
	// Arrange
	userRepo := new(mockUserRepository)
	svc := NewAuthService(userRepo, testAuthConfig())

	userRepo.On("VerifyPassword", mock.Anything, "alice@example.com", "wrong").
		Return(nil, fmt.Errorf("неверный пароль"))

	// Act
	token, err := svc.Login(context.Background(), "alice@example.com", "wrong")

	// Assert
	assert.Error(t, err)
	assert.Empty(t, token)
}

func TestAuthService_ParseTokenWrongSecret(t *testing.T) {
	// Arrange: токен подписан другим секретом
	otherCfg := &config.Config{JWTSecretKey: "other-secret", TokenDuration: time.Hour}
	otherSvc := NewAuthService(new(mockUserRepository), otherCfg)

	userRepo := new(mockUserRepository)
	userRepo.On("VerifyPassword", mock.Anything, mock.Anything, mock.Anything).
		Return(&models.User{UserID: "user-123"}, nil)
	foreignSvc := NewAuthService(userRepo, testAuthConfig())

	token, err := foreignSvc.Login(context.Background(), "a@x.com", "pass1")
	require.NoError(t, err)

	// Act
	_, err = otherSvc.ParseToken(token)

	// Assert
	assert.Error(t, err)
}

func TestAuthService_ParseTokenGarbage(t *testing.T) {
	svc := NewAuthService(new(mockUserRepository), testAuthConfig())

	_, err := svc.ParseToken("not-a-jwt")

	assert.Error(t, err)
}
