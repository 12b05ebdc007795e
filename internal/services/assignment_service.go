package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yashdodwani/student-grading-system/internal/models"
	"github.com/yashdodwani/student-grading-system/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AssignmentService struct {
	store  *repository.Store
	access *Access
	log    *zap.Logger
}

func NewAssignmentService(store *repository.Store, access *Access, log *zap.Logger) *AssignmentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AssignmentService{store: store, access: access, log: log}
}

type QuestionInput struct {
	Text  string
	Order *int // без порядка вопрос получает свой номер в списке, начиная с 1
}

type CreateAssignmentInput struct {
	CourseID      uuid.UUID
	Name          string
	Weight        float64
	QuestionCount int
	Deadline      time.Time
	Questions     []QuestionInput
}

// UpdateAssignmentInput - частичное обновление: nil-поля не меняются
type UpdateAssignmentInput struct {
	Name     *string
	Weight   *float64
	Deadline *time.Time
}

// List возвращает задания курсов преподавателя или курсов, на которые записан ученик
func (s *AssignmentService) List(ctx context.Context, p Principal) ([]models.Assignment, error) {
	if p.IsTeacher() {
		return s.store.Assignments.ListByTeacher(ctx, p.ID)
	}
	return s.store.Assignments.ListByStudent(ctx, p.ID)
}

// Get возвращает задание с вопросами в порядке order
func (s *AssignmentService) Get(ctx context.Context, p Principal, id uuid.UUID) (*models.Assignment, error) {
	assignment, err := s.store.Assignments.GetWithQuestions(ctx, id)
	if err != nil {
		return nil, lookup(err, "Assignment not found")
	}
	if err := s.access.RequireAssignmentMember(ctx, p, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *AssignmentService) Questions(ctx context.Context, p Principal, id uuid.UUID) ([]models.Question, error) {
	assignment, err := s.store.Assignments.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "Assignment not found")
	}
	if err := s.access.RequireAssignmentMember(ctx, p, assignment); err != nil {
		return nil, err
	}
	return s.store.Assignments.ListQuestions(ctx, id)
}

// Create создаёт задание и все его вопросы в одной транзакции
func (s *AssignmentService) Create(ctx context.Context, p Principal, in CreateAssignmentInput) (*models.Assignment, error) {
	if _, err := s.access.OwnedCourse(ctx, p, in.CourseID, "Not authorized to create assignments for this course"); err != nil {
		return nil, err
	}

	if len(in.Questions) != in.QuestionCount {
		return nil, badRequest("Number of questions (%d) does not match questionCount (%d)", len(in.Questions), in.QuestionCount)
	}

	assignment := &models.Assignment{
		ID:            uuid.New(),
		Name:          in.Name,
		CourseID:      in.CourseID,
		Weight:        in.Weight,
		QuestionCount: in.QuestionCount,
		Deadline:      in.Deadline.UTC(),
		Questions:     make([]models.Question, 0, len(in.Questions)),
	}
	for i, q := range in.Questions {
		order := i + 1
		if q.Order != nil {
			order = *q.Order
		}
		assignment.Questions = append(assignment.Questions, models.Question{
			ID:    uuid.New(),
			Text:  q.Text,
			Order: order,
		})
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		return tx.Assignments.Create(ctx, assignment)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	s.log.Info("assignment created",
		zap.String("assignment_id", assignment.ID.String()),
		zap.String("course_id", assignment.CourseID.String()),
		zap.Int("questions", len(assignment.Questions)))

	// повторное чтение возвращает вопросы в порядке order
	return s.store.Assignments.GetWithQuestions(ctx, assignment.ID)
}

func (s *AssignmentService) Update(ctx context.Context, p Principal, id uuid.UUID, in UpdateAssignmentInput) (*models.Assignment, error) {
	assignment, err := s.owned(ctx, p, id, "Not authorized to update this assignment")
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		assignment.Name = *in.Name
	}
	if in.Weight != nil {
		assignment.Weight = *in.Weight
	}
	if in.Deadline != nil {
		assignment.Deadline = in.Deadline.UTC()
	}
	if err := s.store.Assignments.Update(ctx, assignment); err != nil {
		return nil, lookup(err, "Assignment not found")
	}
	return s.store.Assignments.GetWithQuestions(ctx, id)
}

// Delete удаляет задание; вопросы и решения удаляются каскадом
func (s *AssignmentService) Delete(ctx context.Context, p Principal, id uuid.UUID) error {
	if _, err := s.owned(ctx, p, id, "Not authorized to delete this assignment"); err != nil {
		return err
	}
	if err := s.store.Assignments.Delete(ctx, id); err != nil {
		return lookup(err, "Assignment not found")
	}

	s.log.Info("assignment deleted", zap.String("assignment_id", id.String()))
	return nil
}

func (s *AssignmentService) owned(ctx context.Context, p Principal, id uuid.UUID, denied string) (*models.Assignment, error) {
	assignment, err := s.store.Assignments.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "Assignment not found")
	}
	if err := s.access.RequireAssignmentOwner(ctx, p, assignment, denied); err != nil {
		return nil, err
	}
	return assignment, nil
}
