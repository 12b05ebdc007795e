package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yashdodwani/student-grading-system/internal/models"
	"github.com/yashdodwani/student-grading-system/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CourseService struct {
	store  *repository.Store
	access *Access
	log    *zap.Logger
}

func NewCourseService(store *repository.Store, access *Access, log *zap.Logger) *CourseService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CourseService{store: store, access: access, log: log}
}

// CourseDetail - курс с актуальными счётчиками учеников и заданий
type CourseDetail struct {
	Course          *models.Course
	StudentCount    int64
	AssignmentCount int64
}

type CreateCourseInput struct {
	Name        string
	Description *string
}

// UpdateCourseInput - частичное обновление: nil-поля не меняются
type UpdateCourseInput struct {
	Name        *string
	Description *string
}

// List возвращает курсы преподавателя или курсы, на которые записан ученик
func (s *CourseService) List(ctx context.Context, p Principal) ([]models.Course, error) {
	if p.IsTeacher() {
		return s.store.Courses.ListByTeacher(ctx, p.ID)
	}
	return s.store.Courses.ListByStudent(ctx, p.ID)
}

func (s *CourseService) Create(ctx context.Context, p Principal, in CreateCourseInput) (*CourseDetail, error) {
	course := &models.Course{
		ID:          uuid.New(),
		Name:        in.Name,
		Description: in.Description,
		TeacherID:   p.ID,
	}
	if err := s.store.Courses.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.log.Info("course created", zap.String("course_id", course.ID.String()), zap.String("teacher_id", p.ID.String()))
	return &CourseDetail{Course: course}, nil
}

func (s *CourseService) Get(ctx context.Context, p Principal, id uuid.UUID) (*CourseDetail, error) {
	course, err := s.access.Course(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireCourseMember(ctx, p, course, "Not authorized to access this course"); err != nil {
		return nil, err
	}
	return s.detail(ctx, course)
}

func (s *CourseService) Update(ctx context.Context, p Principal, id uuid.UUID, in UpdateCourseInput) (*CourseDetail, error) {
	course, err := s.access.OwnedCourse(ctx, p, id, "Not authorized to update this course")
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		course.Name = *in.Name
	}
	if in.Description != nil {
		course.Description = in.Description
	}
	if err := s.store.Courses.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}
	return s.detail(ctx, course)
}

// Delete удаляет курс; записи и задания удаляются каскадом
func (s *CourseService) Delete(ctx context.Context, p Principal, id uuid.UUID) error {
	if _, err := s.access.OwnedCourse(ctx, p, id, "Not authorized to delete this course"); err != nil {
		return err
	}
	if err := s.store.Courses.Delete(ctx, id); err != nil {
		return lookup(err, "Course not found")
	}

	s.log.Info("course deleted", zap.String("course_id", id.String()))
	return nil
}

func (s *CourseService) ListStudents(ctx context.Context, p Principal, id uuid.UUID) ([]models.User, error) {
	if _, err := s.access.OwnedCourse(ctx, p, id, "Not authorized to view students in this course"); err != nil {
		return nil, err
	}
	return s.store.Courses.ListStudents(ctx, id)
}

// AddStudent записывает ученика на курс и возвращает курс с новым числом учеников
func (s *CourseService) AddStudent(ctx context.Context, p Principal, courseID, studentID uuid.UUID) (*CourseDetail, error) {
	course, err := s.access.OwnedCourse(ctx, p, courseID, "Not authorized to add students to this course")
	if err != nil {
		return nil, err
	}

	student, err := s.store.Users.GetByID(ctx, studentID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if student == nil || !student.IsStudent() {
		return nil, notFound("Student not found")
	}

	enrolled, err := s.store.Courses.IsEnrolled(ctx, courseID, studentID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, conflict("Student already enrolled in this course")
	}

	err = s.store.Courses.AddStudent(ctx, &models.Enrollment{StudentID: studentID, CourseID: courseID})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("Student already enrolled in this course")
		}
		return nil, fmt.Errorf("failed to enroll student: %w", err)
	}

	s.log.Info("student enrolled",
		zap.String("course_id", courseID.String()),
		zap.String("student_id", studentID.String()))
	return s.detail(ctx, course)
}

func (s *CourseService) RemoveStudent(ctx context.Context, p Principal, courseID, studentID uuid.UUID) error {
	if _, err := s.access.OwnedCourse(ctx, p, courseID, "Not authorized to remove students from this course"); err != nil {
		return err
	}
	if err := s.store.Courses.RemoveStudent(ctx, courseID, studentID); err != nil {
		return lookup(err, "Student not enrolled in this course")
	}
	return nil
}

// ListAssignments возвращает задания курса; доступ как у Get
func (s *CourseService) ListAssignments(ctx context.Context, p Principal, id uuid.UUID) ([]models.Assignment, error) {
	course, err := s.access.Course(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireCourseMember(ctx, p, course, "Not authorized to access this course"); err != nil {
		return nil, err
	}
	return s.store.Assignments.ListByCourse(ctx, id)
}

func (s *CourseService) detail(ctx context.Context, course *models.Course) (*CourseDetail, error) {
	students, err := s.store.Courses.CountStudents(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}
	assignments, err := s.store.Courses.CountAssignments(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("count assignments: %w", err)
	}
	return &CourseDetail{Course: course, StudentCount: students, AssignmentCount: assignments}, nil
}
