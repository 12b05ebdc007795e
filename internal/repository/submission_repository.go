package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yashdodwani/student-grading-system/internal/models"
)

type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Submission, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*models.Submission, error)
	Exists(ctx context.Context, studentID, assignmentID uuid.UUID) (bool, error)
	ListByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]models.Submission, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Submission, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.SubmissionStatus) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Answers
	CreateAnswers(ctx context.Context, answers []models.Answer) error
	DeleteAnswers(ctx context.Context, submissionID uuid.UUID) (int64, error)

	// Grades
	GetGrade(ctx context.Context, submissionID uuid.UUID) (*models.Grade, error)
	UpsertGrade(ctx context.Context, grade *models.Grade) error
	UpdateGrade(ctx context.Context, grade *models.Grade) error
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

// Create сохраняет решение вместе с ответами из submission.Answers
func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	if submission.ID == uuid.Nil {
		submission.ID = uuid.New()
	}
	if submission.Status == "" {
		submission.Status = models.SubmissionStatusSubmitted
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(submission).Error; err != nil {
		return translate(err)
	}

	for i := range submission.Answers {
		submission.Answers[i].SubmissionID = submission.ID
	}
	return r.CreateAnswers(ctx, submission.Answers)
}

func (r *submissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).First(&submission, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &submission, nil
}

// GetDetail получает решение с ответами и оценкой
func (r *submissionRepository) GetDetail(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).
		Preload("Answers").
		Preload("Grade").
		First(&submission, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &submission, nil
}

func (r *submissionRepository) Exists(ctx context.Context, studentID, assignmentID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("student_id = ? AND assignment_id = ?", studentID, assignmentID).
		Count(&count).Error
	return count > 0, translate(err)
}

func (r *submissionRepository) ListByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("submitted_at DESC").
		Find(&submissions).Error
	return submissions, translate(err)
}

func (r *submissionRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("submitted_at DESC").
		Find(&submissions).Error
	return submissions, translate(err)
}

func (r *submissionRepository) SetStatus(ctx context.Context, id uuid.UUID, status models.SubmissionStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Submission{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *submissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Submission{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *submissionRepository) CreateAnswers(ctx context.Context, answers []models.Answer) error {
	if len(answers) == 0 {
		return nil
	}
	for i := range answers {
		if answers[i].ID == uuid.Nil {
			answers[i].ID = uuid.New()
		}
	}
	return translate(r.db.WithContext(ctx).Create(&answers).Error)
}

func (r *submissionRepository) DeleteAnswers(ctx context.Context, submissionID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("submission_id = ?", submissionID).Delete(&models.Answer{})
	return result.RowsAffected, translate(result.Error)
}

func (r *submissionRepository) GetGrade(ctx context.Context, submissionID uuid.UUID) (*models.Grade, error) {
	var grade models.Grade
	if err := r.db.WithContext(ctx).First(&grade, "submission_id = ?", submissionID).Error; err != nil {
		return nil, translate(err)
	}
	return &grade, nil
}

// UpsertGrade вставляет оценку или перезаписывает существующую: на решение всегда одна строка
func (r *submissionRepository) UpsertGrade(ctx context.Context, grade *models.Grade) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "submission_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"grade", "comment", "graded_at"}),
		}).
		Create(grade).Error
	return translate(err)
}

func (r *submissionRepository) UpdateGrade(ctx context.Context, grade *models.Grade) error {
	result := r.db.WithContext(ctx).
		Model(&models.Grade{}).
		Where("submission_id = ?", grade.SubmissionID).
		Select("grade", "comment", "graded_at").
		Updates(map[string]interface{}{
			"grade":     grade.Grade,
			"comment":   grade.Comment,
			"graded_at": grade.GradedAt,
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
