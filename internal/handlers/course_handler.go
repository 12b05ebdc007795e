package handlers

import (
	"net/http"

	"github.com/yashdodwani/student-grading-system/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CourseHandler - курсы и записи учеников на них
type CourseHandler struct {
	courseService *services.CourseService
}

func NewCourseHandler(courseService *services.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courseService.List(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCourseList(courses))
}

func (h *CourseHandler) Create(c *gin.Context) {
	var req CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	detail, err := h.courseService.Create(c.Request.Context(), principal(c), services.CreateCourseInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newCourseDetail(detail))
}

func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", "Course")
	if !ok {
		return
	}

	detail, err := h.courseService.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCourseDetail(detail))
}

func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id", "Course")
	if !ok {
		return
	}

	var req UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	detail, err := h.courseService.Update(c.Request.Context(), principal(c), id, services.UpdateCourseInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCourseDetail(detail))
}

func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id", "Course")
	if !ok {
		return
	}

	if err := h.courseService.Delete(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CourseHandler) ListStudents(c *gin.Context) {
	id, ok := pathID(c, "id", "Course")
	if !ok {
		return
	}

	students, err := h.courseService.ListStudents(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserList(students))
}

func (h *CourseHandler) AddStudent(c *gin.Context) {
	id, ok := pathID(c, "id", "Course")
	if !ok {
		return
	}

	var req AddStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	// формат проверен правилом uuid
	studentID := uuid.MustParse(req.StudentID)

	detail, err := h.courseService.AddStudent(c.Request.Context(), principal(c), id, studentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newCourseDetail(detail))
}

func (h *CourseHandler) RemoveStudent(c *gin.Context) {
	id, ok := pathID(c, "id", "Course")
	if !ok {
		return
	}
	studentID, ok := pathID(c, "studentId", "Student")
	if !ok {
		return
	}

	if err := h.courseService.RemoveStudent(c.Request.Context(), principal(c), id, studentID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CourseHandler) ListAssignments(c *gin.Context) {
	id, ok := pathID(c, "id", "Course")
	if !ok {
		return
	}

	assignments, err := h.courseService.ListAssignments(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAssignmentList(assignments))
}
