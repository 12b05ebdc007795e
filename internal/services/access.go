package services

import (
	"context"
	"fmt"

	"github.com/yashdodwani/student-grading-system/internal/models"
	"github.com/yashdodwani/student-grading-system/internal/repository"

	"github.com/google/uuid"
)

// OwnsCourse: преподаватель - владелец курса
func OwnsCourse(p Principal, course *models.Course) bool {
	return p.IsTeacher() && course != nil && course.TeacherID == p.ID
}

// SelfOrTeacher: пользователь действует над собой, либо он преподаватель
func SelfOrTeacher(p Principal, targetID uuid.UUID) bool {
	return p.ID == targetID || p.IsTeacher()
}

// OwnsSubmission: ученик - автор решения
func OwnsSubmission(p Principal, submission *models.Submission) bool {
	return p.IsStudent() && submission != nil && submission.StudentID == p.ID
}

// Access проверяет права доступа по цепочкам владения:
// задание -> курс -> преподаватель, решение -> задание -> курс -> преподаватель.
// Отсутствующий ресурс даёт NotFound раньше, чем проверяются права.
type Access struct {
	courses     repository.CourseRepository
	assignments repository.AssignmentRepository
}

// NewAccess создаёт проверку доступа поверх репозиториев хранилища
func NewAccess(store *repository.Store) *Access {
	return &Access{courses: store.Courses, assignments: store.Assignments}
}

// IsEnrolled: ученик записан на курс
func (a *Access) IsEnrolled(ctx context.Context, p Principal, courseID uuid.UUID) (bool, error) {
	if !p.IsStudent() {
		return false, nil
	}
	ok, err := a.courses.IsEnrolled(ctx, courseID, p.ID)
	if err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return ok, nil
}

// Course загружает курс
func (a *Access) Course(ctx context.Context, courseID uuid.UUID) (*models.Course, error) {
	course, err := a.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, lookup(err, "Course not found")
	}
	return course, nil
}

// OwnedCourse загружает курс и требует, чтобы им владел преподаватель p
func (a *Access) OwnedCourse(ctx context.Context, p Principal, courseID uuid.UUID, denied string) (*models.Course, error) {
	course, err := a.Course(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !OwnsCourse(p, course) {
		return nil, forbidden(denied)
	}
	return course, nil
}

// RequireCourseMember пропускает владельца курса и записанных на курс учеников
func (a *Access) RequireCourseMember(ctx context.Context, p Principal, course *models.Course, denied string) error {
	if p.IsTeacher() {
		if !OwnsCourse(p, course) {
			return forbidden(denied)
		}
		return nil
	}

	enrolled, err := a.IsEnrolled(ctx, p, course.ID)
	if err != nil {
		return err
	}
	if !enrolled {
		return forbidden("Not enrolled in this course")
	}
	return nil
}

// CourseOfAssignment проходит по цепочке задание -> курс
func (a *Access) CourseOfAssignment(ctx context.Context, assignment *models.Assignment) (*models.Course, error) {
	course, err := a.courses.GetByID(ctx, assignment.CourseID)
	if err != nil {
		return nil, lookup(err, "Course not found")
	}
	return course, nil
}

// RequireAssignmentOwner требует, чтобы p владел курсом задания
func (a *Access) RequireAssignmentOwner(ctx context.Context, p Principal, assignment *models.Assignment, denied string) error {
	course, err := a.CourseOfAssignment(ctx, assignment)
	if err != nil {
		return err
	}
	if !OwnsCourse(p, course) {
		return forbidden(denied)
	}
	return nil
}

// RequireAssignmentMember пропускает владельца курса задания и записанных учеников
func (a *Access) RequireAssignmentMember(ctx context.Context, p Principal, assignment *models.Assignment) error {
	course, err := a.CourseOfAssignment(ctx, assignment)
	if err != nil {
		return err
	}
	if p.IsTeacher() {
		if !OwnsCourse(p, course) {
			return forbidden("Not authorized to access this assignment")
		}
		return nil
	}

	enrolled, err := a.IsEnrolled(ctx, p, course.ID)
	if err != nil {
		return err
	}
	if !enrolled {
		return forbidden("Not enrolled in the course for this assignment")
	}
	return nil
}

// RequireSubmissionOwnerTeacher проходит по цепочке решение -> задание -> курс -> преподаватель
func (a *Access) RequireSubmissionOwnerTeacher(ctx context.Context, p Principal, submission *models.Submission, denied string) error {
	assignment, err := a.assignments.GetByID(ctx, submission.AssignmentID)
	if err != nil {
		return lookup(err, "Assignment not found")
	}
	return a.RequireAssignmentOwner(ctx, p, assignment, denied)
}

// RequireSubmissionReader пропускает автора решения и преподавателя-владельца курса
func (a *Access) RequireSubmissionReader(ctx context.Context, p Principal, submission *models.Submission) error {
	if p.IsStudent() {
		if !OwnsSubmission(p, submission) {
			return forbidden("Not authorized to view this submission")
		}
		return nil
	}
	return a.RequireSubmissionOwnerTeacher(ctx, p, submission, "Not authorized to view this submission")
}

// RequireStudentRecordReader пропускает самого ученика и преподавателей, на чей курс он записан
func (a *Access) RequireStudentRecordReader(ctx context.Context, p Principal, studentID uuid.UUID) error {
	if p.IsStudent() {
		if p.ID != studentID {
			return forbidden("Not authorized to view other students' submissions")
		}
		return nil
	}

	ok, err := a.courses.TeacherHasStudent(ctx, p.ID, studentID)
	if err != nil {
		return fmt.Errorf("check teacher student: %w", err)
	}
	if !ok {
		return forbidden("Not authorized to view this student's submissions")
	}
	return nil
}
