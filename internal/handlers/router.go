package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/yashdodwani/student-grading-system/internal/services"
	"github.com/yashdodwani/student-grading-system/pkg/logger"
	"github.com/yashdodwani/student-grading-system/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger проверяет доступность базы данных
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps - всё, что нужно для сборки HTTP-маршрутов
type Deps struct {
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
	DB          Pinger
	Version     string
	CORSOrigins []string

	Auth        *services.AuthService
	Users       *services.UserService
	Courses     *services.CourseService
	Assignments *services.AssignmentService
	Submissions *services.SubmissionService
	Grading     services.GradingService
}

// NewRouter собирает gin-движок со всеми маршрутами API
func NewRouter(deps Deps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	RegisterValidators()

	authHandler := NewAuthHandler(deps.Auth)
	userHandler := NewUserHandler(deps.Users)
	courseHandler := NewCourseHandler(deps.Courses)
	assignmentHandler := NewAssignmentHandler(deps.Assignments)
	submissionHandler := NewSubmissionHandler(deps.Submissions, deps.Grading)

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(withLogger(deps.Logger))
	router.Use(logger.GinMiddleware(deps.Logger))
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
	}
	router.Use(CORSMiddleware(deps.CORSOrigins))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the Student Grading System API"})
	})
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := router.Group("/api")
	api.GET("/health", healthHandler(deps.DB, deps.Version))

	// Публичные маршруты
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// Защищенные маршруты (требуют авторизации)
	protected := api.Group("")
	protected.Use(AuthMiddleware(deps.Auth))

	teacherOnly := TeacherOnlyMiddleware()
	studentOnly := StudentOnlyMiddleware()

	protected.GET("/auth/me", authHandler.Me)

	// Пользователи
	protected.GET("/users", teacherOnly, userHandler.List)
	protected.GET("/users/teachers", userHandler.ListTeachers)
	protected.GET("/users/students", userHandler.ListStudents)
	protected.GET("/users/:id", userHandler.Get)
	protected.PUT("/users/:id", userHandler.Update)
	protected.DELETE("/users/:id", teacherOnly, userHandler.Delete)

	// Курсы
	protected.GET("/courses", courseHandler.List)
	protected.POST("/courses", teacherOnly, courseHandler.Create)
	protected.GET("/courses/:id", courseHandler.Get)
	protected.PUT("/courses/:id", teacherOnly, courseHandler.Update)
	protected.DELETE("/courses/:id", teacherOnly, courseHandler.Delete)
	protected.GET("/courses/:id/students", teacherOnly, courseHandler.ListStudents)
	protected.POST("/courses/:id/students", teacherOnly, courseHandler.AddStudent)
	protected.DELETE("/courses/:id/students/:studentId", teacherOnly, courseHandler.RemoveStudent)
	protected.GET("/courses/:id/assignments", courseHandler.ListAssignments)

	// Задания
	protected.GET("/assignments", assignmentHandler.List)
	protected.POST("/assignments", teacherOnly, assignmentHandler.Create)
	protected.GET("/assignments/:id", assignmentHandler.Get)
	protected.PUT("/assignments/:id", teacherOnly, assignmentHandler.Update)
	protected.DELETE("/assignments/:id", teacherOnly, assignmentHandler.Delete)
	protected.GET("/assignments/:id/questions", assignmentHandler.Questions)

	// Решения и оценки
	protected.GET("/assignments/:id/submissions", teacherOnly, submissionHandler.ListByAssignment)
	protected.POST("/assignments/:id/submissions", studentOnly, submissionHandler.Create)
	protected.GET("/students/:id/submissions", submissionHandler.ListByStudent)
	protected.GET("/submissions/:id", submissionHandler.Get)
	protected.POST("/submissions/:id/grade", teacherOnly, submissionHandler.Grade)
	protected.PUT("/submissions/:id/grade", teacherOnly, submissionHandler.UpdateGrade)
	protected.DELETE("/submissions/:id", studentOnly, submissionHandler.Delete)

	return router
}

// healthHandler проверяет базу данных и сообщает версию API
func healthHandler(db Pinger, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		health, status := "healthy", "ok"
		code := http.StatusOK
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				health, status = "unhealthy", "error: "+err.Error()
				code = http.StatusServiceUnavailable
			}
		}

		c.JSON(code, gin.H{
			"status":   health,
			"database": status,
			"version":  version,
		})
	}
}
