package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole определяет роли пользователей
type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
)

// Valid проверяет, что роль известна системе
func (r UserRole) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// User представляет пользователя системы
type User struct {
	ID        uuid.UUID `gorm:"type:text;primaryKey"`
	Name      string    `gorm:"not null"`
	Email     string    `gorm:"uniqueIndex;not null"`
	Password  string    `gorm:"not null"` // bcrypt-хеш
	Role      UserRole  `gorm:"type:text;not null"`
	CreatedAt time.Time
}

// IsTeacher сообщает, является ли пользователь преподавателем
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }

// IsStudent сообщает, является ли пользователь учеником
func (u *User) IsStudent() bool { return u.Role == RoleStudent }
