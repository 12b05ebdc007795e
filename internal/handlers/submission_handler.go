package handlers

import (
	"context"
	"net/http"

	"github.com/yashdodwani/student-grading-system/internal/models"
	"github.com/yashdodwani/student-grading-system/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SubmissionHandler - решения учеников и оценки
type SubmissionHandler struct {
	submissionService *services.SubmissionService
	gradingService    services.GradingService
}

func NewSubmissionHandler(submissionService *services.SubmissionService, gradingService services.GradingService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService, gradingService: gradingService}
}

func (h *SubmissionHandler) ListByAssignment(c *gin.Context) {
	id, ok := pathID(c, "id", "Assignment")
	if !ok {
		return
	}

	submissions, err := h.submissionService.ListByAssignment(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSubmissionList(submissions))
}

func (h *SubmissionHandler) ListByStudent(c *gin.Context) {
	id, ok := pathID(c, "id", "Student")
	if !ok {
		return
	}

	submissions, err := h.submissionService.ListByStudent(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSubmissionList(submissions))
}

func (h *SubmissionHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", "Submission")
	if !ok {
		return
	}

	submission, err := h.submissionService.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSubmissionDetail(submission))
}

func (h *SubmissionHandler) Create(c *gin.Context) {
	id, ok := pathID(c, "id", "Assignment")
	if !ok {
		return
	}

	var req CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	answers := make([]services.AnswerInput, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, services.AnswerInput{QuestionID: uuid.MustParse(a.QuestionID), Text: a.Text})
	}

	submission, err := h.submissionService.Create(c.Request.Context(), principal(c), id, services.CreateSubmissionInput{
		AssignmentID: uuid.MustParse(req.AssignmentID),
		Answers:      answers,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newSubmissionDetail(submission))
}

// Grade выставляет или перезаписывает оценку
func (h *SubmissionHandler) Grade(c *gin.Context) {
	h.grade(c, h.gradingService.Grade)
}

// UpdateGrade меняет существующую оценку
func (h *SubmissionHandler) UpdateGrade(c *gin.Context) {
	h.grade(c, h.gradingService.UpdateGrade)
}

type gradeFunc func(ctx context.Context, p services.Principal, id uuid.UUID, in services.GradeInput) (*models.Grade, error)

func (h *SubmissionHandler) grade(c *gin.Context, apply gradeFunc) {
	id, ok := pathID(c, "id", "Submission")
	if !ok {
		return
	}

	var req GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	grade, err := apply(c.Request.Context(), principal(c), id, services.GradeInput{Grade: *req.Grade, Comment: req.Comment})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newGradeResponse(grade))
}

func (h *SubmissionHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id", "Submission")
	if !ok {
		return
	}

	if err := h.submissionService.Delete(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
