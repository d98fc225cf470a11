package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openschool/schoolhub/backend/internal/database"
	"github.com/openschool/schoolhub/backend/internal/models"
)

type FeeHandler struct{}

func NewFeeHandler() *FeeHandler {
	return &FeeHandler{}
}

func feeStatus(due, paid float64) models.FeeStatus {
	switch {
	case paid >= due && due > 0:
		return models.FeePaid
	case paid > 0:
		return models.FeePartial
	default:
		return models.FeeUnpaid
	}
}

// RecordPayment applies a payment against a student's term fee inside a
// transaction: the term row is created on first payment, then incremented.
func (h *FeeHandler) RecordPayment(c *gin.Context) {
	var req models.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	db := database.GetDB()

	var student models.Student
	if err := db.First(&student, req.StudentID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "student not found"})
		return
	}

	var payment models.FeePayment
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("student_id = ? AND term = ?", req.StudentID, req.Term).First(&payment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if req.AmountDue <= 0 {
				return gorm.ErrInvalidData
			}
			payment = models.FeePayment{
				StudentID: req.StudentID,
				Term:      req.Term,
				AmountDue: req.AmountDue,
			}
			if err := tx.Create(&payment).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		now := time.Now()
		payment.AmountPaid += req.Amount
		payment.PaymentMethod = req.PaymentMethod
		payment.Reference = req.Reference
		payment.Status = feeStatus(payment.AmountDue, payment.AmountPaid)
		payment.PaidAt = &now

		return tx.Save(&payment).Error
	})
	if errors.Is(err, gorm.ErrInvalidData) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount_due is required for the first payment of a term"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, payment)
}

// ListByStudent returns a student's fee history, newest term first.
func (h *FeeHandler) ListByStudent(c *gin.Context) {
	var student models.Student
	if err := database.GetDB().First(&student, "admission_number = ?", c.Param("admission")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}

	var payments []models.FeePayment
	if err := database.GetDB().Where("student_id = ?", student.ID).Order("term DESC").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, payments)
}

// Outstanding reports every unpaid balance, optionally for one term.
func (h *FeeHandler) Outstanding(c *gin.Context) {
	query := database.GetDB().Model(&models.FeePayment{}).
		Select(`fee_payments.student_id, students.admission_number, students.first_name,
			students.last_name, students.class, fee_payments.term,
			fee_payments.amount_due, fee_payments.amount_paid,
			fee_payments.amount_due - fee_payments.amount_paid AS balance`).
		Joins("JOIN students ON students.id = fee_payments.student_id").
		Where("fee_payments.status != ?", models.FeePaid).
		Order("balance DESC")
	if term := c.Query("term"); term != "" {
		query = query.Where("fee_payments.term = ?", term)
	}

	var rows []models.OutstandingFee
	if err := query.Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var total float64
	for _, r := range rows {
		total += r.Balance
	}

	c.JSON(http.StatusOK, gin.H{"outstanding": rows, "total_balance": total})
}
