package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yashdodwani/student-grading-system/internal/models"
	"github.com/yashdodwani/student-grading-system/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Principal - аутентифицированный пользователь, от имени которого выполняется запрос
type Principal struct {
	ID   uuid.UUID
	Role models.UserRole
}

// IsTeacher сообщает, является ли пользователь преподавателем
func (p Principal) IsTeacher() bool { return p.Role == models.RoleTeacher }

// IsStudent сообщает, является ли пользователь учеником
func (p Principal) IsStudent() bool { return p.Role == models.RoleStudent }

// TokenClaims - содержимое bearer-токена
type TokenClaims struct {
	Role models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// AuthResult представляет результат авторизации
type AuthResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AuthService хеширует пароли и выпускает/проверяет подписанные токены
type AuthService struct {
	users      repository.UserRepository
	secret     []byte
	ttl        time.Duration
	bcryptCost int
	now        func() time.Time
	log        *zap.Logger
}

// NewAuthService создает новый сервис авторизации
func NewAuthService(users repository.UserRepository, secret string, ttl time.Duration, bcryptCost int, log *zap.Logger) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		users:      users,
		secret:     []byte(secret),
		ttl:        ttl,
		bcryptCost: bcryptCost,
		now:        time.Now,
		log:        log,
	}
}

// HashPassword возвращает bcrypt-хеш пароля
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword сверяет пароль с хешем
func (s *AuthService) VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueToken выпускает токен с идентификатором и ролью пользователя
func (s *AuthService) IssueToken(userID uuid.UUID, role models.UserRole) (string, error) {
	now := s.now()
	claims := TokenClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ResolveToken проверяет подпись и срок действия токена и возвращает пользователя из него
func (s *AuthService) ResolveToken(tokenString string) (Principal, error) {
	var claims TokenClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Principal{}, unauthenticated("Could not validate credentials")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || !claims.Role.Valid() {
		return Principal{}, unauthenticated("Could not validate credentials")
	}

	return Principal{ID: userID, Role: claims.Role}, nil
}

// Authenticate разбирает токен и загружает пользователя; удалённый пользователь не проходит
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	principal, err := s.ResolveToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, unauthenticated("Could not validate credentials")
		}
		return nil, fmt.Errorf("load principal: %w", err)
	}
	return user, nil
}

// RegisterInput - данные для регистрации
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.UserRole
}

// Register создает пользователя; повторный email даёт Conflict
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if !in.Role.Valid() {
		return nil, badRequest("Invalid role")
	}

	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:       uuid.New(),
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Role:     in.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("Email already registered")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("user registered", zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))
	return user, nil
}

// Login проверяет учётные данные и выдаёт токен
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, unauthenticated("Incorrect email or password")
		}
		return nil, err
	}

	if !s.VerifyPassword(password, user.Password) {
		return nil, unauthenticated("Incorrect email or password")
	}

	token, err := s.IssueToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &AuthResult{AccessToken: token, TokenType: "bearer"}, nil
}
