package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yashdodwani/student-grading-system/internal/models"
	"github.com/yashdodwani/student-grading-system/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService struct {
	store *repository.Store
	auth  *AuthService
	log   *zap.Logger
}

func NewUserService(store *repository.Store, auth *AuthService, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{store: store, auth: auth, log: log}
}

// UpdateUserInput - частичное обновление: nil-поля не меняются
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.store.Users.List(ctx)
}

func (s *UserService) ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error) {
	if !role.Valid() {
		return nil, badRequest("Invalid role")
	}
	return s.store.Users.ListByRole(ctx, role)
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.store.Users.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "User not found")
	}
	return user, nil
}

// Update изменяет профиль. Править можно себя; преподаватель может править любого.
func (s *UserService) Update(ctx context.Context, p Principal, id uuid.UUID, in UpdateUserInput) (*models.User, error) {
	if !SelfOrTeacher(p, id) {
		return nil, forbidden("Not authorized to update this user")
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != user.Email {
			existing, err := s.store.Users.GetByEmail(ctx, email)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("check email: %w", err)
			}
			if existing != nil {
				return nil, conflict("Email already registered")
			}
		}
		user.Email = email
	}
	if in.Password != nil {
		hash, err := s.auth.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}

	if err := s.store.Users.Update(ctx, user); err != nil {
		// гонка двух обновлений с одним email
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("Email already registered")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// Delete удаляет пользователя вместе с его курсами, записями и решениями
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Users.Delete(ctx, id); err != nil {
		return lookup(err, "User not found")
	}
	s.log.Info("user deleted", zap.String("user_id", id.String()))
	return nil
}
