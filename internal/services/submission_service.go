package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yashdodwani/student-grading-system/internal/models"
	"github.com/yashdodwani/student-grading-system/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubmissionService - решения учеников и их ответы
type SubmissionService struct {
	store  *repository.Store
	access *Access
	now    func() time.Time
	log    *zap.Logger
}

func NewSubmissionService(store *repository.Store, access *Access, log *zap.Logger) *SubmissionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SubmissionService{
		store:  store,
		access: access,
		now:    func() time.Time { return time.Now().UTC() },
		log:    log,
	}
}

type AnswerInput struct {
	QuestionID uuid.UUID
	Text       string
}

type CreateSubmissionInput struct {
	AssignmentID uuid.UUID
	Answers      []AnswerInput
}

// ListByAssignment возвращает решения задания; только для преподавателя-владельца курса
func (s *SubmissionService) ListByAssignment(ctx context.Context, p Principal, assignmentID uuid.UUID) ([]models.Submission, error) {
	assignment, err := s.store.Assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, lookup(err, "Assignment not found")
	}
	if err := s.access.RequireAssignmentOwner(ctx, p, assignment, "Not authorized to view submissions for this assignment"); err != nil {
		return nil, err
	}
	return s.store.Submissions.ListByAssignment(ctx, assignmentID)
}

// ListByStudent возвращает все решения ученика
func (s *SubmissionService) ListByStudent(ctx context.Context, p Principal, studentID uuid.UUID) ([]models.Submission, error) {
	if err := s.access.RequireStudentRecordReader(ctx, p, studentID); err != nil {
		return nil, err
	}
	return s.store.Submissions.ListByStudent(ctx, studentID)
}

// Get возвращает решение с ответами и оценкой
func (s *SubmissionService) Get(ctx context.Context, p Principal, id uuid.UUID) (*models.Submission, error) {
	submission, err := s.store.Submissions.GetDetail(ctx, id)
	if err != nil {
		return nil, lookup(err, "Submission not found")
	}
	if err := s.access.RequireSubmissionReader(ctx, p, submission); err != nil {
		return nil, err
	}
	return submission, nil
}

// Create сохраняет решение ученика. Набор вопросов в ответах должен совпадать
// с набором вопросов задания; при любой ошибке ничего не сохраняется.
func (s *SubmissionService) Create(ctx context.Context, p Principal, assignmentID uuid.UUID, in CreateSubmissionInput) (*models.Submission, error) {
	assignment, err := s.store.Assignments.GetWithQuestions(ctx, assignmentID)
	if err != nil {
		return nil, lookup(err, "Assignment not found")
	}

	enrolled, err := s.access.IsEnrolled(ctx, p, assignment.CourseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, forbidden("Not enrolled in this course")
	}

	if in.AssignmentID != assignmentID {
		return nil, badRequest("Assignment ID mismatch")
	}

	submission := &models.Submission{
		ID:           uuid.New(),
		StudentID:    p.ID,
		AssignmentID: assignmentID,
		SubmittedAt:  s.now(),
		Status:       models.SubmissionStatusSubmitted,
		Answers:      make([]models.Answer, 0, len(in.Answers)),
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		exists, err := tx.Submissions.Exists(ctx, p.ID, assignmentID)
		if err != nil {
			return err
		}
		if exists {
			return badRequest("You have already submitted this assignment")
		}

		questions := assignment.QuestionIDs()
		answered := make(map[uuid.UUID]struct{}, len(in.Answers))
		for _, a := range in.Answers {
			if _, ok := questions[a.QuestionID]; !ok {
				return badRequest("Question %s is not part of this assignment", a.QuestionID)
			}
			if _, dup := answered[a.QuestionID]; dup {
				return badRequest("Question %s is answered more than once", a.QuestionID)
			}
			answered[a.QuestionID] = struct{}{}
			submission.Answers = append(submission.Answers, models.Answer{
				ID:         uuid.New(),
				QuestionID: a.QuestionID,
				Text:       a.Text,
			})
		}
		if len(answered) != len(questions) {
			return badRequest("All questions must be answered")
		}

		return tx.Submissions.Create(ctx, submission)
	})
	if err != nil {
		// параллельная вторая попытка упирается в уникальный индекс (student_id, assignment_id)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, badRequest("You have already submitted this assignment")
		}
		var svcErr *Error
		if errors.As(err, &svcErr) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	s.log.Info("submission created",
		zap.String("submission_id", submission.ID.String()),
		zap.String("assignment_id", assignmentID.String()),
		zap.String("student_id", p.ID.String()))

	return s.store.Submissions.GetDetail(ctx, submission.ID)
}

// Delete удаляет неоценённое решение автора: сначала ответы, затем само решение
func (s *SubmissionService) Delete(ctx context.Context, p Principal, id uuid.UUID) error {
	submission, err := s.store.Submissions.GetByID(ctx, id)
	if err != nil {
		return lookup(err, "Submission not found")
	}
	if !OwnsSubmission(p, submission) {
		return forbidden("Not authorized to delete this submission")
	}
	if submission.IsGraded() {
		return badRequest("Cannot delete a submission that has already been graded")
	}

	var answers int64
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		n, err := tx.Submissions.DeleteAnswers(ctx, id)
		if err != nil {
			return err
		}
		answers = n
		return tx.Submissions.Delete(ctx, id)
	})
	if err != nil {
		return lookup(err, "Submission not found")
	}

	s.log.Info("submission deleted", zap.String("submission_id", id.String()), zap.Int64("answers", answers))
	return nil
}
