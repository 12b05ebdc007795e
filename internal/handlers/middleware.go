package handlers

import (
	"net/http"
	"strings"

	"github.com/yashdodwani/student-grading-system/internal/models"
	"github.com/yashdodwani/student-grading-system/internal/services"

	"github.com/gin-gonic/gin"
)

// Ключи контекста gin
const (
	ctxUser     = "user"
	ctxUserID   = "user_id"
	ctxUserRole = "user_role"
)

// AuthMiddleware создает middleware для авторизации по bearer-токену
func AuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Получаем токен из заголовка Authorization
		var token string
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.Fields(authHeader)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				token = parts[1]
			}
		}
		if token == "" {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		// Валидируем токен и загружаем пользователя
		user, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			respondError(c, err)
			c.Abort()
			return
		}

		c.Set(ctxUser, user)
		c.Set(ctxUserID, user.ID)     // uuid.UUID
		c.Set(ctxUserRole, user.Role) // models.UserRole

		c.Next()
	}
}

// TeacherOnlyMiddleware создает middleware только для преподавателей
func TeacherOnlyMiddleware() gin.HandlerFunc {
	return requireRole(models.RoleTeacher, "Teacher role required")
}

// StudentOnlyMiddleware создает middleware только для учеников
func StudentOnlyMiddleware() gin.HandlerFunc {
	return requireRole(models.RoleStudent, "Student role required")
}

func requireRole(want models.UserRole, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(ctxUserRole)
		role, ok := roleVal.(models.UserRole)
		if !exists || !ok || role != want {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": msg})
			return
		}
		c.Next()
	}
}

// CORSMiddleware создает middleware для CORS
func CORSMiddleware(origins []string) gin.HandlerFunc {
	allowAll := len(origins) == 0
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case allowAll:
			c.Header("Access-Control-Allow-Origin", "*")
		case origin != "":
			if _, ok := allowed[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Access-Control-Allow-Credentials", "true")
				c.Header("Vary", "Origin")
			}
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Requested-With")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// currentUser возвращает пользователя, установленного AuthMiddleware
func currentUser(c *gin.Context) *models.User {
	val, _ := c.Get(ctxUser)
	user, _ := val.(*models.User)
	return user
}

// principal возвращает аутентифицированного пользователя запроса
func principal(c *gin.Context) services.Principal {
	user := currentUser(c)
	if user == nil {
		return services.Principal{}
	}
	return services.Principal{ID: user.ID, Role: user.Role}
}
