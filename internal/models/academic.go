package models

import (
	"time"
)

type AcademicRecord struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	StudentID uint      `json:"student_id" gorm:"not null;uniqueIndex:idx_academic_student_term_subject"`
	Student   Student   `json:"student" gorm:"foreignKey:StudentID"`
	Term      string    `json:"term" gorm:"not null;uniqueIndex:idx_academic_student_term_subject"`
	Subject   string    `json:"subject" gorm:"not null;uniqueIndex:idx_academic_student_term_subject"`
	Score     float64   `json:"score"`
	Grade     string    `json:"grade"`
	Remarks   string    `json:"remarks"`
	EnteredBy string    `json:"entered_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UpsertAcademicRequest struct {
	StudentID uint    `json:"student_id" binding:"required"`
	Term      string  `json:"term" binding:"required"`
	Subject   string  `json:"subject" binding:"required"`
	Score     float64 `json:"score"`
	Remarks   string  `json:"remarks"`
}

// GradeForScore maps a percentage score onto the school's letter scale.
func GradeForScore(score float64) string {
	switch {
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	default:
		return "E"
	}
}
