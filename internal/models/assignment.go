package models

import (
	"time"

	"github.com/google/uuid"
)

// Assignment - задание курса с фиксированным набором вопросов
type Assignment struct {
	ID            uuid.UUID `gorm:"type:text;primaryKey"`
	Name          string    `gorm:"not null"`
	CourseID      uuid.UUID `gorm:"type:text;not null;index"`
	Weight        float64   `gorm:"not null"`
	QuestionCount int       `gorm:"not null"`
	Deadline      time.Time `gorm:"not null"`
	CreatedAt     time.Time

	// Связи
	Course    *Course    `gorm:"foreignKey:CourseID"`
	Questions []Question `gorm:"foreignKey:AssignmentID"`
}

// Question - вопрос задания; Order задаёт порядок показа и проверки
type Question struct {
	ID           uuid.UUID `gorm:"type:text;primaryKey"`
	AssignmentID uuid.UUID `gorm:"type:text;not null;index"`
	Text         string    `gorm:"not null"`
	Order        int       `gorm:"column:order;not null"`
}

// QuestionIDs возвращает множество идентификаторов вопросов задания
func (a *Assignment) QuestionIDs() map[uuid.UUID]struct{} {
	ids := make(map[uuid.UUID]struct{}, len(a.Questions))
	for _, q := range a.Questions {
		ids[q.ID] = struct{}{}
	}
	return ids
}
