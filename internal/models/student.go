package models

import (
	"time"
)

type Student struct {
	ID              uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	AdmissionNumber string     `json:"admission_number" gorm:"not null;uniqueIndex"`
	FirstName       string     `json:"first_name" gorm:"not null"`
	LastName        string     `json:"last_name" gorm:"not null"`
	Class           string     `json:"class" gorm:"index"`
	Section         string     `json:"section"`
	DateOfBirth     *time.Time `json:"date_of_birth"`
	GuardianName    string     `json:"guardian_name"`
	GuardianPhone   string     `json:"guardian_phone"`
	Address         string     `json:"address"`
	PhotoPath       string     `json:"photo_path" gorm:"default:null"` // relative to the upload dir, empty when no photo
	AdmittedAt      time.Time  `json:"admitted_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type StudentSearchResult struct {
	Students   []Student `json:"students"`
	TotalCount int       `json:"total_count"`
	HasMore    bool      `json:"has_more"`
}

type CreateStudentRequest struct {
	AdmissionNumber string     `json:"admission_number" binding:"required"`
	FirstName       string     `json:"first_name" binding:"required"`
	LastName        string     `json:"last_name" binding:"required"`
	Class           string     `json:"class"`
	Section         string     `json:"section"`
	DateOfBirth     *time.Time `json:"date_of_birth"`
	GuardianName    string     `json:"guardian_name"`
	GuardianPhone   string     `json:"guardian_phone"`
	Address         string     `json:"address"`
}

type UpdateStudentRequest struct {
	FirstName     *string    `json:"first_name"`
	LastName      *string    `json:"last_name"`
	Class         *string    `json:"class"`
	Section       *string    `json:"section"`
	DateOfBirth   *time.Time `json:"date_of_birth"`
	GuardianName  *string    `json:"guardian_name"`
	GuardianPhone *string    `json:"guardian_phone"`
	Address       *string    `json:"address"`
}
