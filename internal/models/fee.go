package models

import (
	"time"
)

type FeeStatus string

const (
	FeePaid    FeeStatus = "paid"
	FeePartial FeeStatus = "partial"
	FeeUnpaid  FeeStatus = "unpaid"
)

type FeePayment struct {
	ID            uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	StudentID     uint       `json:"student_id" gorm:"not null;index"`
	Student       Student    `json:"student" gorm:"foreignKey:StudentID"`
	Term          string     `json:"term" gorm:"not null;index"` // e.g. "2026-T1"
	AmountDue     float64    `json:"amount_due" gorm:"not null"`
	AmountPaid    float64    `json:"amount_paid"`
	PaymentMethod string     `json:"payment_method"`
	Status        FeeStatus  `json:"status" gorm:"not null;default:'unpaid';index"`
	Reference     string     `json:"reference"`
	PaidAt        *time.Time `json:"paid_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type RecordPaymentRequest struct {
	StudentID     uint    `json:"student_id" binding:"required"`
	Term          string  `json:"term" binding:"required"`
	AmountDue     float64 `json:"amount_due"`
	Amount        float64 `json:"amount" binding:"required"`
	PaymentMethod string  `json:"payment_method"`
	Reference     string  `json:"reference"`
}

// OutstandingFee is one row of the arrears report.
type OutstandingFee struct {
	StudentID       uint    `json:"student_id"`
	AdmissionNumber string  `json:"admission_number"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Class           string  `json:"class"`
	Term            string  `json:"term"`
	AmountDue       float64 `json:"amount_due"`
	AmountPaid      float64 `json:"amount_paid"`
	Balance         float64 `json:"balance"`
}
