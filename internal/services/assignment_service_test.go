package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashdodwani/student-grading-system/internal/models"
)

func intPtr(v int) *int { return &v }

func TestAssignmentCreateRequiresMatchingQuestionCount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.register(t, "teacher", models.RoleTeacher)
	other := env.register(t, "other", models.RoleTeacher)
	courseID := env.course(t, teacher)

	in := CreateAssignmentInput{
		CourseID:      courseID,
		Name:          "Quiz",
		Weight:        10,
		QuestionCount: 2,
		Deadline:      time.Now().Add(time.Hour),
		Questions:     []QuestionInput{{Text: "only one"}},
	}
	_, err := env.assignments.Create(ctx, teacher, in)
	assert.ErrorIs(t, err, ErrBadRequest)
	assert.Zero(t, env.count(t, &models.Assignment{}, "course_id = ?", courseID))
	assert.Zero(t, env.count(t, &models.Question{}, "1 = 1"))

	in.Questions = []QuestionInput{
		{Text: "second", Order: intPtr(2)},
		{Text: "first", Order: intPtr(1)},
	}
	_, err = env.assignments.Create(ctx, other, in)
	assert.ErrorIs(t, err, ErrForbidden)

	in.CourseID = uuid.New()
	_, err = env.assignments.Create(ctx, teacher, in)
	assert.ErrorIs(t, err, ErrNotFound)

	in.CourseID = courseID
	assignment, err := env.assignments.Create(ctx, teacher, in)
	require.NoError(t, err)
	assert.Equal(t, 2, assignment.QuestionCount)
	require.Len(t, assignment.Questions, 2)
	assert.Equal(t, "first", assignment.Questions[0].Text)
	assert.Equal(t, "second", assignment.Questions[1].Text)
	assert.WithinDuration(t, in.Deadline, assignment.Deadline, time.Second)
}

func TestAssignmentReadAccess(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.register(t, "teacher", models.RoleTeacher)
	other := env.register(t, "other", models.RoleTeacher)
	student := env.register(t, "student", models.RoleStudent)
	outsider := env.register(t, "outsider", models.RoleStudent)

	courseID := env.course(t, teacher, student)
	assignment := env.assignment(t, teacher, courseID, "Q1", "Q2", "Q3")

	got, err := env.assignments.Get(ctx, student, assignment.ID)
	require.NoError(t, err)
	require.Len(t, got.Questions, 3)
	for i, q := range got.Questions {
		assert.Equal(t, i+1, q.Order)
	}

	questions, err := env.assignments.Questions(ctx, teacher, assignment.ID)
	require.NoError(t, err)
	assert.Len(t, questions, 3)

	_, err = env.assignments.Get(ctx, outsider, assignment.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = env.assignments.Questions(ctx, other, assignment.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = env.assignments.Get(ctx, teacher, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	listed, err := env.assignments.List(ctx, student)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	listed, err = env.assignments.List(ctx, outsider)
	require.NoError(t, err)
	assert.Empty(t, listed)

	listed, err = env.assignments.List(ctx, teacher)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestAssignmentUpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.register(t, "teacher", models.RoleTeacher)
	other := env.register(t, "other", models.RoleTeacher)
	student := env.register(t, "student", models.RoleStudent)

	courseID := env.course(t, teacher, student)
	assignment := env.assignment(t, teacher, courseID, "Q1")

	weight := 40.0
	updated, err := env.assignments.Update(ctx, teacher, assignment.ID, UpdateAssignmentInput{Weight: &weight})
	require.NoError(t, err)
	assert.Equal(t, 40.0, updated.Weight)
	assert.Equal(t, assignment.Name, updated.Name)
	assert.Len(t, updated.Questions, 1)

	_, err = env.assignments.Update(ctx, other, assignment.ID, UpdateAssignmentInput{Weight: &weight})
	assert.ErrorIs(t, err, ErrForbidden)

	env.submit(t, student, assignment)

	assert.ErrorIs(t, env.assignments.Delete(ctx, other, assignment.ID), ErrForbidden)
	require.NoError(t, env.assignments.Delete(ctx, teacher, assignment.ID))
	assert.ErrorIs(t, env.assignments.Delete(ctx, teacher, assignment.ID), ErrNotFound)

	assert.Zero(t, env.count(t, &models.Question{}, "assignment_id = ?", assignment.ID))
	assert.Zero(t, env.count(t, &models.Submission{}, "assignment_id = ?", assignment.ID))
}
