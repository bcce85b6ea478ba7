package service

import (
	"context"
	"errors"
	"fmt"
	"github.com/golang-jwt/jwt/v5"
	"mediablog/internal/config"
	"mediablog/internal/models"
	"mediablog/internal/repository"
	"time"
)

type SignupRequest struct {
	Name     string
	Email    string
	Password string
}

type AuthService interface {
	Signup(ctx context.Context, req SignupRequest) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	ParseToken(tokenString string) (string, error)
}

type authService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// Signup создает пользователя и возвращает подписанный токен.
// Проверка занятого email - чтение перед записью, уникального
// ограничения в БД нет.
func (s *authService) Signup(ctx context.Context, req SignupRequest) (string, error) {
	existingUser, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return "", fmt.Errorf("ошибка проверки email: %w", err)
	}
	if existingUser != nil {
		return "", fmt.Errorf("пользователь с email %s уже существует", req.Email)
	}

	user := &models.User{
		Name:  req.Name,
		Email: req.Email,
		Posts: models.PostIDList{},
	}

	err = s.userRepo.CreateUser(ctx, user, req.Password)
	if err != nil {
		return "", fmt.Errorf("ошибка при создании пользователя: %w", err)
	}

	token, err := s.generateToken(user.UserID)
	if err != nil {
		return "", fmt.Errorf("ошибка генерации токена: %w", err)
	}

	return token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.VerifyPassword(ctx, email, password)
	if err != nil {
		return "", fmt.Errorf("ошибка аутентификации: %w", err)
	}

	token, err := s.generateToken(user.UserID)
	if err != nil {
		return "", fmt.Errorf("ошибка генерации токена: %w", err)
	}

	return token, nil
}

func (s *authService) generateToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID,
		"exp":    time.Now().Add(s.cfg.TokenDuration).Unix(),
		"iat":    time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %w", err)
	}

	return tokenString, nil
}

// ParseToken проверяет подпись и срок действия, возвращает id пользователя
func (s *authService) ParseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecretKey), nil
	})

	if err != nil {
		return "", fmt.Errorf("ошибка парсинга токена: %w", err)
	}

	if !token.Valid {
		return "", fmt.Errorf("недействительный токен")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("неверный формат claims")
	}

	userID, ok := claims["userId"].(string)
	if !ok {
		return "", fmt.Errorf("неверные данные в токене")
	}

	return userID, nil
}
