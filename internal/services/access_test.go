package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/yashdodwani/student-grading-system/internal/models"
)

func TestOwnershipPredicates(t *testing.T) {
	teacher := Principal{ID: uuid.New(), Role: models.RoleTeacher}
	otherTeacher := Principal{ID: uuid.New(), Role: models.RoleTeacher}
	student := Principal{ID: uuid.New(), Role: models.RoleStudent}

	course := &models.Course{ID: uuid.New(), TeacherID: teacher.ID}
	submission := &models.Submission{ID: uuid.New(), StudentID: student.ID}

	assert.True(t, OwnsCourse(teacher, course))
	assert.False(t, OwnsCourse(otherTeacher, course))
	assert.False(t, OwnsCourse(teacher, nil))
	// ученик с тем же id не владеет курсом
	assert.False(t, OwnsCourse(Principal{ID: teacher.ID, Role: models.RoleStudent}, course))

	assert.True(t, SelfOrTeacher(student, student.ID))
	assert.True(t, SelfOrTeacher(teacher, student.ID))
	assert.False(t, SelfOrTeacher(student, uuid.New()))

	assert.True(t, OwnsSubmission(student, submission))
	assert.False(t, OwnsSubmission(Principal{ID: uuid.New(), Role: models.RoleStudent}, submission))
	assert.False(t, OwnsSubmission(Principal{ID: student.ID, Role: models.RoleTeacher}, submission))
}
