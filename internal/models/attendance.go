package models

import (
	"time"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

// ValidAttendanceStatus reports whether s is one of the known statuses.
func ValidAttendanceStatus(s AttendanceStatus) bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	}
	return false
}

type AttendanceRecord struct {
	ID        uint             `json:"id" gorm:"primaryKey;autoIncrement"`
	StudentID uint             `json:"student_id" gorm:"not null;uniqueIndex:idx_attendance_student_date"`
	Student   Student          `json:"student" gorm:"foreignKey:StudentID"`
	Date      string           `json:"date" gorm:"not null;uniqueIndex:idx_attendance_student_date;index"` // YYYY-MM-DD
	Status    AttendanceStatus `json:"status" gorm:"not null;default:'present'"`
	Remarks   string           `json:"remarks"`
	MarkedBy  string           `json:"marked_by"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type MarkAttendanceRequest struct {
	StudentID uint             `json:"student_id" binding:"required"`
	Date      string           `json:"date" binding:"required"`
	Status    AttendanceStatus `json:"status" binding:"required"`
	Remarks   string           `json:"remarks"`
}

// BulkAttendanceRequest marks a whole class for one date in a single transaction.
type BulkAttendanceRequest struct {
	Date    string                  `json:"date" binding:"required"`
	Class   string                  `json:"class" binding:"required"`
	Entries []MarkAttendanceRequest `json:"entries" binding:"required"`
}

// AttendanceSummary is a per-class daily rollup written by the summary worker.
type AttendanceSummary struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Date        string    `json:"date" gorm:"not null;uniqueIndex:idx_summary_class_date"`
	Class       string    `json:"class" gorm:"not null;uniqueIndex:idx_summary_class_date"`
	Present     int       `json:"present"`
	Absent      int       `json:"absent"`
	Late        int       `json:"late"`
	Excused     int       `json:"excused"`
	Total       int       `json:"total"`
	PresentRate float64   `json:"present_rate"`
	CreatedAt   time.Time `json:"created_at"`
}
