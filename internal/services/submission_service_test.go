package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashdodwani/student-grading-system/internal/models"
)

func TestSubmissionCreateRequiresExactQuestionSet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.register(t, "teacher", models.RoleTeacher)
	student := env.register(t, "student", models.RoleStudent)
	outsider := env.register(t, "outsider", models.RoleStudent)

	courseID := env.course(t, teacher, student)
	assignment := env.assignment(t, teacher, courseID, "Q1", "Q2")
	full := answersFor(assignment)

	cases := map[string]CreateSubmissionInput{
		"missing answer":   {AssignmentID: assignment.ID, Answers: full[:1]},
		"foreign question": {AssignmentID: assignment.ID, Answers: append([]AnswerInput{{QuestionID: uuid.New(), Text: "?"}}, full...)},
		"duplicate answer": {AssignmentID: assignment.ID, Answers: []AnswerInput{full[0], full[0]}},
		"no answers":       {AssignmentID: assignment.ID},
		"id mismatch":      {AssignmentID: uuid.New(), Answers: full},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := env.submissions.Create(ctx, student, assignment.ID, in)
			assert.ErrorIs(t, err, ErrBadRequest)
			assert.Zero(t, env.count(t, &models.Submission{}, "assignment_id = ?", assignment.ID))
			assert.Zero(t, env.count(t, &models.Answer{}, "1 = 1"))
		})
	}

	_, err := env.submissions.Create(ctx, outsider, assignment.ID, CreateSubmissionInput{AssignmentID: assignment.ID, Answers: full})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.submissions.Create(ctx, student, uuid.New(), CreateSubmissionInput{Answers: full})
	assert.ErrorIs(t, err, ErrNotFound)

	submission, err := env.submissions.Create(ctx, student, assignment.ID, CreateSubmissionInput{AssignmentID: assignment.ID, Answers: full})
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStatusSubmitted, submission.Status)
	assert.Equal(t, student.ID, submission.StudentID)
	require.Len(t, submission.Answers, 2)
	assert.Nil(t, submission.Grade)

	answered := map[uuid.UUID]bool{}
	for _, a := range submission.Answers {
		answered[a.QuestionID] = true
	}
	for id := range assignment.QuestionIDs() {
		assert.True(t, answered[id])
	}

	// одно решение на задание
	_, err = env.submissions.Create(ctx, student, assignment.ID, CreateSubmissionInput{AssignmentID: assignment.ID, Answers: full})
	assert.ErrorIs(t, err, ErrBadRequest)
	assert.EqualValues(t, 1, env.count(t, &models.Submission{}, "assignment_id = ?", assignment.ID))
}

func TestSubmissionReadAccess(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.register(t, "teacher", models.RoleTeacher)
	other := env.register(t, "other", models.RoleTeacher)
	student := env.register(t, "student", models.RoleStudent)
	classmate := env.register(t, "classmate", models.RoleStudent)

	courseID := env.course(t, teacher, student, classmate)
	assignment := env.assignment(t, teacher, courseID, "Q1")
	submission := env.submit(t, student, assignment)

	got, err := env.submissions.Get(ctx, student, submission.ID)
	require.NoError(t, err)
	assert.Len(t, got.Answers, 1)

	_, err = env.submissions.Get(ctx, teacher, submission.ID)
	require.NoError(t, err)

	_, err = env.submissions.Get(ctx, classmate, submission.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = env.submissions.Get(ctx, other, submission.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = env.submissions.Get(ctx, teacher, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := env.submissions.ListByAssignment(ctx, teacher, assignment.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	_, err = env.submissions.ListByAssignment(ctx, other, assignment.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = env.submissions.ListByAssignment(ctx, teacher, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	list, err = env.submissions.ListByStudent(ctx, student, student.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = env.submissions.ListByStudent(ctx, teacher, student.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = env.submissions.ListByStudent(ctx, classmate, student.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = env.submissions.ListByStudent(ctx, other, student.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGradingUpsertsSingleGrade(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.register(t, "teacher", models.RoleTeacher)
	other := env.register(t, "other", models.RoleTeacher)
	student := env.register(t, "student", models.RoleStudent)

	courseID := env.course(t, teacher, student)
	assignment := env.assignment(t, teacher, courseID, "Q1", "Q2")
	submission := env.submit(t, student, assignment)

	_, err := env.grading.UpdateGrade(ctx, teacher, submission.ID, GradeInput{Grade: 50})
	assert.ErrorIs(t, err, ErrNotFound, "update requires an existing grade")

	_, err = env.grading.Grade(ctx, other, submission.ID, GradeInput{Grade: 50})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = env.grading.Grade(ctx, teacher, uuid.New(), GradeInput{Grade: 50})
	assert.ErrorIs(t, err, ErrNotFound)

	grade, err := env.grading.Grade(ctx, teacher, submission.ID, GradeInput{Grade: 70})
	require.NoError(t, err)
	assert.Equal(t, 70.0, grade.Grade)
	assert.False(t, grade.GradedAt.IsZero())

	comment := "well done"
	_, err = env.grading.Grade(ctx, teacher, submission.ID, GradeInput{Grade: 85, Comment: &comment})
	require.NoError(t, err)
	assert.EqualValues(t, 1, env.count(t, &models.Grade{}, "submission_id = ?", submission.ID))

	got, err := env.submissions.Get(ctx, student, submission.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStatusGraded, got.Status)
	require.NotNil(t, got.Grade)
	assert.Equal(t, 85.0, got.Grade.Grade)
	require.NotNil(t, got.Grade.Comment)
	assert.Equal(t, comment, *got.Grade.Comment)

	updated, err := env.grading.UpdateGrade(ctx, teacher, submission.ID, GradeInput{Grade: 90})
	require.NoError(t, err)
	assert.Equal(t, 90.0, updated.Grade)
	assert.EqualValues(t, 1, env.count(t, &models.Grade{}, "submission_id = ?", submission.ID))

	_, err = env.grading.UpdateGrade(ctx, other, submission.ID, GradeInput{Grade: 10})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSubmissionDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.register(t, "teacher", models.RoleTeacher)
	student := env.register(t, "student", models.RoleStudent)
	classmate := env.register(t, "classmate", models.RoleStudent)

	courseID := env.course(t, teacher, student, classmate)
	first := env.assignment(t, teacher, courseID, "Q1", "Q2")
	second := env.assignment(t, teacher, courseID, "Q1")

	ungraded := env.submit(t, student, first)
	graded := env.submit(t, student, second)
	_, err := env.grading.Grade(ctx, teacher, graded.ID, GradeInput{Grade: 60})
	require.NoError(t, err)

	assert.ErrorIs(t, env.submissions.Delete(ctx, classmate, ungraded.ID), ErrForbidden)
	assert.ErrorIs(t, env.submissions.Delete(ctx, student, graded.ID), ErrBadRequest)
	assert.ErrorIs(t, env.submissions.Delete(ctx, student, uuid.New()), ErrNotFound)

	require.NoError(t, env.submissions.Delete(ctx, student, ungraded.ID))
	assert.Zero(t, env.count(t, &models.Submission{}, "id = ?", ungraded.ID))
	assert.Zero(t, env.count(t, &models.Answer{}, "submission_id = ?", ungraded.ID))

	// оценённое решение осталось нетронутым
	assert.EqualValues(t, 1, env.count(t, &models.Submission{}, "id = ?", graded.ID))
	assert.EqualValues(t, 1, env.count(t, &models.Answer{}, "submission_id = ?", graded.ID))

	// после удаления ученик может отправить решение заново
	env.submit(t, student, first)
}
