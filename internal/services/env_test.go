package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yashdodwani/student-grading-system/internal/models"
	"github.com/yashdodwani/student-grading-system/internal/repository"
	"github.com/yashdodwani/student-grading-system/pkg/database"
)

const testPassword = "Passw0rd!"

type testEnv struct {
	db          *gorm.DB
	store       *repository.Store
	auth        *AuthService
	users       *UserService
	courses     *CourseService
	assignments *AssignmentService
	submissions *SubmissionService
	grading     GradingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.NewDatabase(context.Background(), database.Options{
		Driver:   database.DriverSQLite,
		DSN:      ":memory:",
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := repository.NewStore(db.DB)
	access := NewAccess(store)
	auth := NewAuthService(store.Users, "test-secret", 30*time.Minute, bcrypt.MinCost, nil)

	return &testEnv{
		db:          db.DB,
		store:       store,
		auth:        auth,
		users:       NewUserService(store, auth, nil),
		courses:     NewCourseService(store, access, nil),
		assignments: NewAssignmentService(store, access, nil),
		submissions: NewSubmissionService(store, access, nil),
		grading:     NewGradingService(store, access, nil),
	}
}

// register создаёт пользователя и возвращает его как Principal
func (e *testEnv) register(t *testing.T, name string, role models.UserRole) Principal {
	t.Helper()
	user, err := e.auth.Register(context.Background(), RegisterInput{
		Name:     name,
		Email:    strings.ToLower(name) + "@example.com",
		Password: testPassword,
		Role:     role,
	})
	require.NoError(t, err)
	return Principal{ID: user.ID, Role: user.Role}
}

func (e *testEnv) course(t *testing.T, teacher Principal, students ...Principal) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	detail, err := e.courses.Create(ctx, teacher, CreateCourseInput{Name: "Algorithms"})
	require.NoError(t, err)
	for _, s := range students {
		_, err := e.courses.AddStudent(ctx, teacher, detail.Course.ID, s.ID)
		require.NoError(t, err)
	}
	return detail.Course.ID
}

func (e *testEnv) assignment(t *testing.T, teacher Principal, courseID uuid.UUID, questions ...string) *models.Assignment {
	t.Helper()

	in := CreateAssignmentInput{
		CourseID:      courseID,
		Name:          "Homework",
		Weight:        25,
		QuestionCount: len(questions),
		Deadline:      time.Now().Add(72 * time.Hour),
	}
	for _, q := range questions {
		in.Questions = append(in.Questions, QuestionInput{Text: q})
	}

	assignment, err := e.assignments.Create(context.Background(), teacher, in)
	require.NoError(t, err)
	return assignment
}

// answersFor отвечает на все вопросы задания
func answersFor(a *models.Assignment) []AnswerInput {
	answers := make([]AnswerInput, 0, len(a.Questions))
	for _, q := range a.Questions {
		answers = append(answers, AnswerInput{QuestionID: q.ID, Text: "answer to " + q.Text})
	}
	return answers
}

func (e *testEnv) submit(t *testing.T, student Principal, a *models.Assignment) *models.Submission {
	t.Helper()
	submission, err := e.submissions.Create(context.Background(), student, a.ID, CreateSubmissionInput{
		AssignmentID: a.ID,
		Answers:      answersFor(a),
	})
	require.NoError(t, err)
	return submission
}

func (e *testEnv) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
