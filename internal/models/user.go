package models

import (
	"time"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

type User struct {
	ID              uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Username        string    `json:"username" gorm:"not null;uniqueIndex"`
	PasswordHash    string    `json:"-" gorm:"not null"`
	Role            Role      `json:"role" gorm:"not null;default:'student'"`
	AdmissionNumber string    `json:"admission_number"` // set for student accounts only
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	Role      Role      `json:"role"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}
