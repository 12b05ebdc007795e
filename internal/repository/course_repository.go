package repository

import (
	"context"
	"time"

	"github.com/yashdodwani/student-grading-system/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourseRepository интерфейс для работы с курсами и записями на курсы
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]models.Course, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Course, error)
	CountAssignments(ctx context.Context, courseID uuid.UUID) (int64, error)

	// Enrollment
	AddStudent(ctx context.Context, enrollment *models.Enrollment) error
	RemoveStudent(ctx context.Context, courseID, studentID uuid.UUID) error
	IsEnrolled(ctx context.Context, courseID, studentID uuid.UUID) (bool, error)
	CountStudents(ctx context.Context, courseID uuid.UUID) (int64, error)
	ListStudents(ctx context.Context, courseID uuid.UUID) ([]models.User, error)
	TeacherHasStudent(ctx context.Context, teacherID, studentID uuid.UUID) (bool, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository создает новый репозиторий курсов
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	return translate(r.db.WithContext(ctx).Omit("Teacher").Create(course).Error)
}

func (r *courseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &course, nil
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	return translate(r.db.WithContext(ctx).Omit("Teacher").Save(course).Error)
}

// Delete удаляет курс; записи на курс и задания удаляет каскад
func (r *courseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Course{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *courseRepository) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]models.Course, error) {
	var courses []models.Course
	err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, translate(err)
}

// ListByStudent получает курсы, на которые записан ученик
func (r *courseRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Course, error) {
	var courses []models.Course
	err := r.db.WithContext(ctx).
		Joins("JOIN student_courses ON student_courses.course_id = courses.id").
		Where("student_courses.student_id = ?", studentID).
		Order("courses.created_at DESC").
		Find(&courses).Error
	return courses, translate(err)
}

func (r *courseRepository) CountAssignments(ctx context.Context, courseID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Assignment{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, translate(err)
}

// AddStudent записывает ученика на курс; повторная запись даёт ErrDuplicate
func (r *courseRepository) AddStudent(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = time.Now().UTC()
	}
	return translate(r.db.WithContext(ctx).Omit("Student", "Course").Create(enrollment).Error)
}

func (r *courseRepository) RemoveStudent(ctx context.Context, courseID, studentID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Delete(&models.Enrollment{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *courseRepository) IsEnrolled(ctx context.Context, courseID, studentID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Count(&count).Error
	return count > 0, translate(err)
}

func (r *courseRepository) CountStudents(ctx context.Context, courseID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Enrollment{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, translate(err)
}

// ListStudents получает учеников, записанных на курс
func (r *courseRepository) ListStudents(ctx context.Context, courseID uuid.UUID) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN student_courses ON student_courses.student_id = users.id").
		Where("student_courses.course_id = ?", courseID).
		Order("student_courses.enrolled_at ASC").
		Find(&users).Error
	return users, translate(err)
}

// TeacherHasStudent проверяет, записан ли ученик хотя бы на один курс преподавателя
func (r *courseRepository) TeacherHasStudent(ctx context.Context, teacherID, studentID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Joins("JOIN courses ON courses.id = student_courses.course_id").
		Where("courses.teacher_id = ? AND student_courses.student_id = ?", teacherID, studentID).
		Count(&count).Error
	return count > 0, translate(err)
}
