package models

import (
	"time"

	"github.com/google/uuid"
)

// Course представляет учебный курс преподавателя
type Course struct {
	ID          uuid.UUID `gorm:"type:text;primaryKey"`
	Name        string    `gorm:"not null"`
	Description *string
	TeacherID   uuid.UUID `gorm:"type:text;not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Связи
	Teacher *User `gorm:"foreignKey:TeacherID"`
}

// Enrollment связывает ученика с курсом
type Enrollment struct {
	StudentID  uuid.UUID `gorm:"type:text;primaryKey"`
	CourseID   uuid.UUID `gorm:"type:text;primaryKey"`
	EnrolledAt time.Time `gorm:"not null"`

	// Связи
	Student *User   `gorm:"foreignKey:StudentID"`
	Course  *Course `gorm:"foreignKey:CourseID"`
}

// TableName сохраняет историческое имя таблицы связей
func (Enrollment) TableName() string {
	return "student_courses"
}
