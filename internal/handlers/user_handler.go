package handlers

import (
	"net/http"

	"github.com/yashdodwani/student-grading-system/internal/models"
	"github.com/yashdodwani/student-grading-system/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List - все пользователи (только преподаватель)
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserList(users))
}

func (h *UserHandler) ListTeachers(c *gin.Context) {
	h.listByRole(c, models.RoleTeacher)
}

func (h *UserHandler) ListStudents(c *gin.Context) {
	h.listByRole(c, models.RoleStudent)
}

func (h *UserHandler) listByRole(c *gin.Context, role models.UserRole) {
	users, err := h.userService.ListByRole(c.Request.Context(), role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserList(users))
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", "User")
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id", "User")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.userService.Update(c.Request.Context(), principal(c), id, services.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id", "User")
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
