package models

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus определяет статус решения
type SubmissionStatus string

const (
	SubmissionStatusSubmitted SubmissionStatus = "submitted"
	SubmissionStatusGraded    SubmissionStatus = "graded"
)

// Submission представляет решение задания от ученика
type Submission struct {
	ID           uuid.UUID        `gorm:"type:text;primaryKey"`
	StudentID    uuid.UUID        `gorm:"type:text;not null;index"`
	AssignmentID uuid.UUID        `gorm:"type:text;not null;index"`
	SubmittedAt  time.Time        `gorm:"not null"`
	Status       SubmissionStatus `gorm:"type:text;not null;default:'submitted'"`

	// Связи
	Assignment *Assignment `gorm:"foreignKey:AssignmentID"`
	Answers    []Answer    `gorm:"foreignKey:SubmissionID"`
	Grade      *Grade      `gorm:"foreignKey:SubmissionID"`
}

// IsGraded сообщает, выставлена ли оценка
func (s *Submission) IsGraded() bool {
	return s.Status == SubmissionStatusGraded
}

// Answer - ответ ученика на один вопрос
type Answer struct {
	ID           uuid.UUID `gorm:"type:text;primaryKey"`
	SubmissionID uuid.UUID `gorm:"type:text;not null"`
	QuestionID   uuid.UUID `gorm:"type:text;not null"`
	Text         string    `gorm:"not null"`
}

// Grade - оценка преподавателя, одна на решение
type Grade struct {
	SubmissionID uuid.UUID `gorm:"type:text;primaryKey"`
	Grade        float64   `gorm:"not null"`
	Comment      *string
	GradedAt     time.Time `gorm:"not null"`
}
