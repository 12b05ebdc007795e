package repository

import (
	"context"

	"github.com/yashdodwani/student-grading-system/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error)
	GetWithQuestions(ctx context.Context, id uuid.UUID) (*models.Assignment, error)
	Update(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]models.Assignment, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Assignment, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Assignment, error)

	// Questions
	ListQuestions(ctx context.Context, assignmentID uuid.UUID) ([]models.Question, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

// questionOrder сортирует вопросы по колонке "order" (зарезервированное слово SQL)
var questionOrder = clause.OrderByColumn{Column: clause.Column{Name: "order"}}

// Create сохраняет задание и его вопросы. Атомарность обеспечивает вызывающий через Store.Transaction.
func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == uuid.Nil {
		assignment.ID = uuid.New()
	}

	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(assignment).Error; err != nil {
		return translate(err)
	}

	if len(assignment.Questions) == 0 {
		return nil
	}
	for i := range assignment.Questions {
		q := &assignment.Questions[i]
		if q.ID == uuid.Nil {
			q.ID = uuid.New()
		}
		q.AssignmentID = assignment.ID
	}
	return translate(db.Create(&assignment.Questions).Error)
}

func (r *assignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).First(&assignment, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &assignment, nil
}

// GetWithQuestions получает задание вместе с вопросами, отсортированными по order
func (r *assignmentRepository) GetWithQuestions(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	var assignment models.Assignment
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order(questionOrder) }).
		First(&assignment, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &assignment, nil
}

// Update сохраняет изменяемые поля задания: название, вес и дедлайн
func (r *assignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	result := r.db.WithContext(ctx).
		Model(&models.Assignment{}).
		Where("id = ?", assignment.ID).
		Select("name", "weight", "deadline").
		Updates(map[string]interface{}{
			"name":     assignment.Name,
			"weight":   assignment.Weight,
			"deadline": assignment.Deadline,
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete удаляет задание; вопросы и решения удаляет каскад
func (r *assignmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Assignment{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *assignmentRepository) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.db.WithContext(ctx).
		Joins("JOIN courses ON courses.id = assignments.course_id").
		Where("courses.teacher_id = ?", teacherID).
		Order("assignments.deadline ASC").
		Find(&assignments).Error
	return assignments, translate(err)
}

func (r *assignmentRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.db.WithContext(ctx).
		Joins("JOIN student_courses ON student_courses.course_id = assignments.course_id").
		Where("student_courses.student_id = ?", studentID).
		Order("assignments.deadline ASC").
		Find(&assignments).Error
	return assignments, translate(err)
}

func (r *assignmentRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("deadline ASC").
		Find(&assignments).Error
	return assignments, translate(err)
}

func (r *assignmentRepository) ListQuestions(ctx context.Context, assignmentID uuid.UUID) ([]models.Question, error) {
	var questions []models.Question
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order(questionOrder).
		Find(&questions).Error
	return questions, translate(err)
}
