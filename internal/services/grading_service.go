package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yashdodwani/student-grading-system/internal/models"
	"github.com/yashdodwani/student-grading-system/internal/repository"
)

type GradeInput struct {
	Grade   float64
	Comment *string
}

type GradingService interface {
	// Grade выставляет оценку или перезаписывает существующую
	Grade(ctx context.Context, p Principal, submissionID uuid.UUID, in GradeInput) (*models.Grade, error)
	// UpdateGrade меняет уже выставленную оценку
	UpdateGrade(ctx context.Context, p Principal, submissionID uuid.UUID, in GradeInput) (*models.Grade, error)
}

type gradingService struct {
	store  *repository.Store
	access *Access
	now    func() time.Time
	log    *zap.Logger
}

func NewGradingService(store *repository.Store, access *Access, log *zap.Logger) GradingService {
	if log == nil {
		log = zap.NewNop()
	}
	return &gradingService{
		store:  store,
		access: access,
		now:    func() time.Time { return time.Now().UTC() },
		log:    log,
	}
}

// Grade: одна строка оценки на решение; в обоих случаях решение становится graded
func (s *gradingService) Grade(ctx context.Context, p Principal, submissionID uuid.UUID, in GradeInput) (*models.Grade, error) {
	if err := s.authorize(ctx, p, submissionID, "Not authorized to grade submissions for this assignment"); err != nil {
		return nil, err
	}

	grade := &models.Grade{
		SubmissionID: submissionID,
		Grade:        in.Grade,
		Comment:      in.Comment,
		GradedAt:     s.now(),
	}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Submissions.UpsertGrade(ctx, grade); err != nil {
			return err
		}
		return tx.Submissions.SetStatus(ctx, submissionID, models.SubmissionStatusGraded)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to grade submission: %w", err)
	}

	s.log.Info("submission graded",
		zap.String("submission_id", submissionID.String()),
		zap.String("teacher_id", p.ID.String()),
		zap.Float64("grade", in.Grade))
	return grade, nil
}

func (s *gradingService) UpdateGrade(ctx context.Context, p Principal, submissionID uuid.UUID, in GradeInput) (*models.Grade, error) {
	if err := s.authorize(ctx, p, submissionID, "Not authorized to update grades for this assignment"); err != nil {
		return nil, err
	}

	grade := &models.Grade{
		SubmissionID: submissionID,
		Grade:        in.Grade,
		Comment:      in.Comment,
		GradedAt:     s.now(),
	}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Submissions.UpdateGrade(ctx, grade); err != nil {
			return lookup(err, "Grade not found for this submission")
		}
		return tx.Submissions.SetStatus(ctx, submissionID, models.SubmissionStatusGraded)
	})
	if err != nil {
		var svcErr *Error
		if errors.As(err, &svcErr) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update grade: %w", err)
	}

	s.log.Info("grade updated", zap.String("submission_id", submissionID.String()), zap.Float64("grade", in.Grade))
	return grade, nil
}

// authorize: решение -> задание -> курс -> преподаватель
func (s *gradingService) authorize(ctx context.Context, p Principal, submissionID uuid.UUID, denied string) error {
	submission, err := s.store.Submissions.GetByID(ctx, submissionID)
	if err != nil {
		return lookup(err, "Submission not found")
	}
	return s.access.RequireSubmissionOwnerTeacher(ctx, p, submission, denied)
}
