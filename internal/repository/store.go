package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store объединяет репозитории поверх одного подключения или транзакции
type Store struct {
	db *gorm.DB

	Users       UserRepository
	Courses     CourseRepository
	Assignments AssignmentRepository
	Submissions SubmissionRepository
}

// NewStore создает набор репозиториев
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:          db,
		Users:       NewUserRepository(db),
		Courses:     NewCourseRepository(db),
		Assignments: NewAssignmentRepository(db),
		Submissions: NewSubmissionRepository(db),
	}
}

// Transaction выполняет fn в транзакции; любая ошибка откатывает все изменения.
// Внутри fn нужно пользоваться только переданным tx.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
