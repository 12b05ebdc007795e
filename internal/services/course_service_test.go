package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashdodwani/student-grading-system/internal/models"
)

func TestCourseEnrollment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.register(t, "teacher", models.RoleTeacher)
	other := env.register(t, "other", models.RoleTeacher)
	student := env.register(t, "student", models.RoleStudent)
	outsider := env.register(t, "outsider", models.RoleStudent)

	courseID := env.course(t, teacher)

	// до записи ученик курс не видит
	_, err := env.courses.Get(ctx, student, courseID)
	assert.ErrorIs(t, err, ErrForbidden)

	detail, err := env.courses.AddStudent(ctx, teacher, courseID, student.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, detail.StudentCount)

	_, err = env.courses.AddStudent(ctx, teacher, courseID, student.ID)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = env.courses.AddStudent(ctx, teacher, courseID, other.ID)
	assert.ErrorIs(t, err, ErrNotFound, "teachers cannot be enrolled")

	_, err = env.courses.AddStudent(ctx, teacher, courseID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.courses.AddStudent(ctx, other, courseID, outsider.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	detail, err = env.courses.Get(ctx, student, courseID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, detail.StudentCount)

	_, err = env.courses.Get(ctx, outsider, courseID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = env.courses.Get(ctx, other, courseID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = env.courses.Get(ctx, teacher, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	students, err := env.courses.ListStudents(ctx, teacher, courseID)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, student.ID, students[0].ID)

	_, err = env.courses.ListStudents(ctx, other, courseID)
	assert.ErrorIs(t, err, ErrForbidden)

	listed, err := env.courses.List(ctx, student)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, courseID, listed[0].ID)

	listed, err = env.courses.List(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, listed)

	require.NoError(t, env.courses.RemoveStudent(ctx, teacher, courseID, student.ID))
	err = env.courses.RemoveStudent(ctx, teacher, courseID, student.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	detail, err = env.courses.Get(ctx, teacher, courseID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, detail.StudentCount)
}

func TestCourseUpdateMergesProvidedFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.register(t, "teacher", models.RoleTeacher)
	other := env.register(t, "other", models.RoleTeacher)

	description := "Sorting and searching"
	created, err := env.courses.Create(ctx, teacher, CreateCourseInput{Name: "Algorithms", Description: &description})
	require.NoError(t, err)
	assert.Equal(t, teacher.ID, created.Course.TeacherID)

	name := "Algorithms II"
	updated, err := env.courses.Update(ctx, teacher, created.Course.ID, UpdateCourseInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Algorithms II", updated.Course.Name)
	require.NotNil(t, updated.Course.Description)
	assert.Equal(t, description, *updated.Course.Description)

	_, err = env.courses.Update(ctx, other, created.Course.ID, UpdateCourseInput{Name: &name})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.courses.Update(ctx, teacher, uuid.New(), UpdateCourseInput{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCourseDeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.register(t, "teacher", models.RoleTeacher)
	other := env.register(t, "other", models.RoleTeacher)
	student := env.register(t, "student", models.RoleStudent)

	courseID := env.course(t, teacher, student)
	assignment := env.assignment(t, teacher, courseID, "Q1", "Q2")
	env.submit(t, student, assignment)

	assert.ErrorIs(t, env.courses.Delete(ctx, other, courseID), ErrForbidden)
	require.NoError(t, env.courses.Delete(ctx, teacher, courseID))
	assert.ErrorIs(t, env.courses.Delete(ctx, teacher, courseID), ErrNotFound)

	assert.Zero(t, env.count(t, &models.Enrollment{}, "course_id = ?", courseID))
	assert.Zero(t, env.count(t, &models.Assignment{}, "course_id = ?", courseID))
	assert.Zero(t, env.count(t, &models.Question{}, "assignment_id = ?", assignment.ID))
	assert.Zero(t, env.count(t, &models.Submission{}, "assignment_id = ?", assignment.ID))
	assert.Zero(t, env.count(t, &models.Answer{}, "1 = 1"))
}

func TestCourseAssignmentsFollowCourseAccess(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.register(t, "teacher", models.RoleTeacher)
	student := env.register(t, "student", models.RoleStudent)
	outsider := env.register(t, "outsider", models.RoleStudent)

	courseID := env.course(t, teacher, student)
	env.assignment(t, teacher, courseID, "Q1")

	assignments, err := env.courses.ListAssignments(ctx, student, courseID)
	require.NoError(t, err)
	assert.Len(t, assignments, 1)

	_, err = env.courses.ListAssignments(ctx, outsider, courseID)
	assert.ErrorIs(t, err, ErrForbidden)

	detail, err := env.courses.Get(ctx, teacher, courseID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, detail.AssignmentCount)
}
