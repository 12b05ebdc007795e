package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/yashdodwani/student-grading-system/internal/models"
	"github.com/yashdodwani/student-grading-system/internal/services"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var registerOnce sync.Once

// RegisterValidators подключает собственные правила к валидатору gin
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		// в сообщениях об ошибках используем имена полей из json
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("password", validatePassword)
	})
}

// validatePassword: не короче 8 символов, есть строчная и заглавная буквы, цифра и спецсимвол
func validatePassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len([]rune(password)) < 8 {
		return false
	}

	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	return lower && upper && digit && special
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body"
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email address", fe.Field()))
		case "uuid":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid id", fe.Field()))
		case "password":
			msgs = append(msgs, fmt.Sprintf("%s must be at least 8 characters and contain lower and upper case letters, a digit and a special character", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
		case "gte", "gt", "lte", "lt", "min", "max":
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return strings.Join(msgs, "; ")
}

// Запросы

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,password"`
	Role     string `json:"role" binding:"required,oneof=teacher student"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=255"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,password"`
}

type CreateCourseRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=255"`
	Description *string `json:"description"`
}

type UpdateCourseRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
}

type AddStudentRequest struct {
	StudentID string `json:"studentId" binding:"required,uuid"`
}

type QuestionRequest struct {
	Text  string `json:"text" binding:"required"`
	Order *int   `json:"order" binding:"omitempty,gte=0"`
}

type CreateAssignmentRequest struct {
	CourseID      string            `json:"courseId" binding:"required,uuid"`
	Name          string            `json:"name" binding:"required,min=1,max=255"`
	Weight        *float64          `json:"weight" binding:"required,gte=0,lte=100"`
	QuestionCount int               `json:"questionCount" binding:"required,gt=0"`
	Deadline      time.Time         `json:"deadline" binding:"required"`
	Questions     []QuestionRequest `json:"questions" binding:"required,dive"`
}

type UpdateAssignmentRequest struct {
	Name     *string    `json:"name" binding:"omitempty,min=1,max=255"`
	Weight   *float64   `json:"weight" binding:"omitempty,gte=0,lte=100"`
	Deadline *time.Time `json:"deadline"`
}

type AnswerRequest struct {
	QuestionID string `json:"questionId" binding:"required,uuid"`
	Text       string `json:"text"`
}

type CreateSubmissionRequest struct {
	AssignmentID string          `json:"assignmentId" binding:"required,uuid"`
	Answers      []AnswerRequest `json:"answers" binding:"required,dive"`
}

type GradeRequest struct {
	Grade   *float64 `json:"grade" binding:"required,gte=0,lte=100"`
	Comment *string  `json:"comment"`
}

// Ответы

type UserResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	CreatedAt time.Time       `json:"createdAt"`
}

type CourseResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	TeacherID   uuid.UUID `json:"teacherId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CourseDetailResponse struct {
	CourseResponse
	StudentCount    int64 `json:"studentCount"`
	AssignmentCount int64 `json:"assignmentCount"`
}

type QuestionResponse struct {
	ID           uuid.UUID `json:"id"`
	AssignmentID uuid.UUID `json:"assignmentId"`
	Text         string    `json:"text"`
	Order        int       `json:"order"`
}

type AssignmentResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	CourseID      uuid.UUID `json:"courseId"`
	Weight        float64   `json:"weight"`
	QuestionCount int       `json:"questionCount"`
	Deadline      time.Time `json:"deadline"`
	CreatedAt     time.Time `json:"createdAt"`
}

type AssignmentDetailResponse struct {
	AssignmentResponse
	Questions []QuestionResponse `json:"questions"`
}

type AnswerResponse struct {
	ID           uuid.UUID `json:"id"`
	SubmissionID uuid.UUID `json:"submissionId"`
	QuestionID   uuid.UUID `json:"questionId"`
	Text         string    `json:"text"`
}

type GradeResponse struct {
	SubmissionID uuid.UUID `json:"submissionId"`
	Grade        float64   `json:"grade"`
	Comment      *string   `json:"comment"`
	GradedAt     time.Time `json:"gradedAt"`
}

type SubmissionResponse struct {
	ID           uuid.UUID               `json:"id"`
	AssignmentID uuid.UUID               `json:"assignmentId"`
	StudentID    uuid.UUID               `json:"studentId"`
	SubmittedAt  time.Time               `json:"submittedAt"`
	Status       models.SubmissionStatus `json:"status"`
}

type SubmissionDetailResponse struct {
	SubmissionResponse
	Answers []AnswerResponse `json:"answers"`
	Grade   *GradeResponse   `json:"grade"`
}

func newUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}

func newUserList(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, newUserResponse(&users[i]))
	}
	return out
}

func newCourseResponse(c *models.Course) CourseResponse {
	return CourseResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		TeacherID:   c.TeacherID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func newCourseList(courses []models.Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(courses))
	for i := range courses {
		out = append(out, newCourseResponse(&courses[i]))
	}
	return out
}

func newCourseDetail(d *services.CourseDetail) CourseDetailResponse {
	return CourseDetailResponse{
		CourseResponse:  newCourseResponse(d.Course),
		StudentCount:    d.StudentCount,
		AssignmentCount: d.AssignmentCount,
	}
}

func newQuestionList(questions []models.Question) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, QuestionResponse{ID: q.ID, AssignmentID: q.AssignmentID, Text: q.Text, Order: q.Order})
	}
	return out
}

func newAssignmentResponse(a *models.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:            a.ID,
		Name:          a.Name,
		CourseID:      a.CourseID,
		Weight:        a.Weight,
		QuestionCount: a.QuestionCount,
		Deadline:      a.Deadline,
		CreatedAt:     a.CreatedAt,
	}
}

func newAssignmentList(assignments []models.Assignment) []AssignmentResponse {
	out := make([]AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		out = append(out, newAssignmentResponse(&assignments[i]))
	}
	return out
}

func newAssignmentDetail(a *models.Assignment) AssignmentDetailResponse {
	return AssignmentDetailResponse{
		AssignmentResponse: newAssignmentResponse(a),
		Questions:          newQuestionList(a.Questions),
	}
}

func newGradeResponse(g *models.Grade) *GradeResponse {
	if g == nil {
		return nil
	}
	return &GradeResponse{SubmissionID: g.SubmissionID, Grade: g.Grade, Comment: g.Comment, GradedAt: g.GradedAt}
}

func newSubmissionResponse(s *models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:           s.ID,
		AssignmentID: s.AssignmentID,
		StudentID:    s.StudentID,
		SubmittedAt:  s.SubmittedAt,
		Status:       s.Status,
	}
}

func newSubmissionList(submissions []models.Submission) []SubmissionResponse {
	out := make([]SubmissionResponse, 0, len(submissions))
	for i := range submissions {
		out = append(out, newSubmissionResponse(&submissions[i]))
	}
	return out
}

func newSubmissionDetail(s *models.Submission) SubmissionDetailResponse {
	answers := make([]AnswerResponse, 0, len(s.Answers))
	for _, a := range s.Answers {
		answers = append(answers, AnswerResponse{ID: a.ID, SubmissionID: a.SubmissionID, QuestionID: a.QuestionID, Text: a.Text})
	}
	return SubmissionDetailResponse{
		SubmissionResponse: newSubmissionResponse(s),
		Answers:            answers,
		Grade:              newGradeResponse(s.Grade),
	}
}
