package handlers

import (
	"net/http"

	"github.com/yashdodwani/student-grading-system/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AssignmentHandler представляет обработчик заданий
type AssignmentHandler struct {
	assignmentService *services.AssignmentService
}

// NewAssignmentHandler создает новый обработчик заданий
func NewAssignmentHandler(assignmentService *services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

// List возвращает задания преподавателя или ученика
func (h *AssignmentHandler) List(c *gin.Context) {
	assignments, err := h.assignmentService.List(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAssignmentList(assignments))
}

// Get возвращает задание с вопросами
func (h *AssignmentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", "Assignment")
	if !ok {
		return
	}

	assignment, err := h.assignmentService.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAssignmentDetail(assignment))
}

// Questions возвращает вопросы задания по порядку
func (h *AssignmentHandler) Questions(c *gin.Context) {
	id, ok := pathID(c, "id", "Assignment")
	if !ok {
		return
	}

	questions, err := h.assignmentService.Questions(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newQuestionList(questions))
}

// Create создает задание вместе с вопросами
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	questions := make([]services.QuestionInput, 0, len(req.Questions))
	for _, q := range req.Questions {
		questions = append(questions, services.QuestionInput{Text: q.Text, Order: q.Order})
	}

	assignment, err := h.assignmentService.Create(c.Request.Context(), principal(c), services.CreateAssignmentInput{
		CourseID:      uuid.MustParse(req.CourseID),
		Name:          req.Name,
		Weight:        *req.Weight,
		QuestionCount: req.QuestionCount,
		Deadline:      req.Deadline,
		Questions:     questions,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newAssignmentDetail(assignment))
}

// Update обновляет название, вес или дедлайн задания
func (h *AssignmentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id", "Assignment")
	if !ok {
		return
	}

	var req UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	assignment, err := h.assignmentService.Update(c.Request.Context(), principal(c), id, services.UpdateAssignmentInput{
		Name:     req.Name,
		Weight:   req.Weight,
		Deadline: req.Deadline,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAssignmentDetail(assignment))
}

// Delete удаляет задание
func (h *AssignmentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id", "Assignment")
	if !ok {
		return
	}

	if err := h.assignmentService.Delete(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
