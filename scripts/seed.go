package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yashdodwani/student-grading-system/internal/config"
	"github.com/yashdodwani/student-grading-system/internal/models"
	"github.com/yashdodwani/student-grading-system/internal/repository"
	"github.com/yashdodwani/student-grading-system/internal/services"
	"github.com/yashdodwani/student-grading-system/pkg/database"
	"github.com/yashdodwani/student-grading-system/pkg/logger"
)

type seedUser struct {
	Name     string
	Email    string
	Password string
	Role     models.UserRole
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	zl := logger.New(cfg.Environment)
	defer zl.Sync()

	ctx := context.Background()

	// Подключаемся к базе данных; миграции применяются при подключении
	dsn := cfg.DBPath
	if cfg.DBDriver == database.DriverPostgres {
		dsn = cfg.DatabaseURL
	}
	db, err := database.NewDatabase(ctx, database.Options{
		Driver:   cfg.DBDriver,
		DSN:      dsn,
		LogLevel: gormlogger.Silent,
		Logger:   zl,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	store := repository.NewStore(db.DB)
	auth := services.NewAuthService(store.Users, cfg.SecretKey, cfg.JWTExpiration, cfg.BcryptCost, zl)

	// Пользователи
	ensureUser(ctx, store, auth, seedUser{"Admin User", "admin@example.com", "Admin123!", models.RoleTeacher})
	teacher := ensureUser(ctx, store, auth, seedUser{"John Doe", "teacher@example.com", "Teacher123!", models.RoleTeacher})
	students := []*models.User{
		ensureUser(ctx, store, auth, seedUser{"Jane Smith", "student@example.com", "Student123!", models.RoleStudent}),
		ensureUser(ctx, store, auth, seedUser{"Alex Brown", "alex@example.com", "Student123!", models.RoleStudent}),
	}

	// Курс
	course := ensureCourse(ctx, store, teacher, "Introduction to Computer Science",
		"A beginner-friendly introduction to computer science concepts")

	// Записываем учеников на курс
	for _, student := range students {
		enrolled, err := store.Courses.IsEnrolled(ctx, course.ID, student.ID)
		if err != nil {
			log.Fatalf("Failed to check enrollment: %v", err)
		}
		if enrolled {
			log.Printf("%s already enrolled in course", student.Email)
			continue
		}
		if err := store.Courses.AddStudent(ctx, &models.Enrollment{StudentID: student.ID, CourseID: course.ID}); err != nil {
			log.Fatalf("Failed to enroll %s: %v", student.Email, err)
		}
		log.Printf("%s enrolled in course", student.Email)
	}

	// Задание
	ensureAssignment(ctx, store, course, "Fundamentals Quiz", []string{
		"What is an algorithm?",
		"Explain the difference between a compiler and an interpreter.",
		"What is the time complexity of binary search?",
	})

	log.Println("Seed data created successfully!")
	log.Println("Admin login: admin@example.com / Admin123!")
	log.Println("Teacher login: teacher@example.com / Teacher123!")
	log.Println("Student login: student@example.com / Student123!")
}

func ensureUser(ctx context.Context, store *repository.Store, auth *services.AuthService, u seedUser) *models.User {
	existing, err := store.Users.GetByEmail(ctx, u.Email)
	if err == nil {
		log.Printf("User %s already exists", u.Email)
		return existing
	}
	if !errors.Is(err, repository.ErrNotFound) {
		log.Fatalf("Failed to look up %s: %v", u.Email, err)
	}

	user, err := auth.Register(ctx, services.RegisterInput{
		Name:     u.Name,
		Email:    u.Email,
		Password: u.Password,
		Role:     u.Role,
	})
	if err != nil {
		log.Fatalf("Failed to create user %s: %v", u.Email, err)
	}
	log.Printf("Created %s %s with ID: %s", u.Role, u.Email, user.ID)
	return user
}

func ensureCourse(ctx context.Context, store *repository.Store, teacher *models.User, name, description string) *models.Course {
	courses, err := store.Courses.ListByTeacher(ctx, teacher.ID)
	if err != nil {
		log.Fatalf("Failed to list courses: %v", err)
	}
	for i := range courses {
		if courses[i].Name == name {
			log.Printf("Course %q already exists", name)
			return &courses[i]
		}
	}

	course := &models.Course{
		ID:          uuid.New(),
		Name:        name,
		Description: &description,
		TeacherID:   teacher.ID,
	}
	if err := store.Courses.Create(ctx, course); err != nil {
		log.Fatalf("Failed to create course: %v", err)
	}
	log.Printf("Created course %q with ID: %s", name, course.ID)
	return course
}

func ensureAssignment(ctx context.Context, store *repository.Store, course *models.Course, name string, questions []string) {
	assignments, err := store.Assignments.ListByCourse(ctx, course.ID)
	if err != nil {
		log.Fatalf("Failed to list assignments: %v", err)
	}
	for _, a := range assignments {
		if a.Name == name {
			log.Printf("Assignment %q already exists", name)
			return
		}
	}

	assignment := &models.Assignment{
		ID:            uuid.New(),
		Name:          name,
		CourseID:      course.ID,
		Weight:        20,
		QuestionCount: len(questions),
		Deadline:      time.Now().UTC().AddDate(0, 0, 7),
	}
	for i, text := range questions {
		assignment.Questions = append(assignment.Questions, models.Question{Text: text, Order: i + 1})
	}

	err = store.Transaction(ctx, func(tx *repository.Store) error {
		return tx.Assignments.Create(ctx, assignment)
	})
	if err != nil {
		log.Fatalf("Failed to create assignment: %v", err)
	}
	log.Printf("Created assignment %q with %d questions", name, len(questions))
}
