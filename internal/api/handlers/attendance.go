package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openschool/schoolhub/backend/internal/database"
	"github.com/openschool/schoolhub/backend/internal/models"
	"github.com/openschool/schoolhub/backend/internal/services"
)

type AttendanceHandler struct {
	summaryService *services.SummaryService
}

func NewAttendanceHandler(summary *services.SummaryService) *AttendanceHandler {
	return &AttendanceHandler{summaryService: summary}
}

func validDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

// Mark records attendance for one student on one date. Re-marking the
// same (student, date) updates the existing row.
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req models.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validDate(req.Date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	if !models.ValidAttendanceStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown attendance status"})
		return
	}

	markedBy := ""
	if claims := ClaimsFrom(c); claims != nil {
		markedBy = claims.Username
	}

	record := models.AttendanceRecord{
		StudentID: req.StudentID,
		Date:      req.Date,
		Status:    req.Status,
		Remarks:   req.Remarks,
		MarkedBy:  markedBy,
	}

	err := database.GetDB().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "remarks", "marked_by", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, record)
}

// BulkMark records a whole class for one date inside a single
// transaction: either every entry lands or none do.
func (h *AttendanceHandler) BulkMark(c *gin.Context) {
	var req models.BulkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validDate(req.Date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	for _, e := range req.Entries {
		if !models.ValidAttendanceStatus(e.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown attendance status"})
			return
		}
	}

	markedBy := ""
	if claims := ClaimsFrom(c); claims != nil {
		markedBy = claims.Username
	}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		for _, e := range req.Entries {
			record := models.AttendanceRecord{
				StudentID: e.StudentID,
				Date:      req.Date,
				Status:    e.Status,
				Remarks:   e.Remarks,
				MarkedBy:  markedBy,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "student_id"}, {Name: "date"}},
				DoUpdates: clause.AssignmentColumns([]string{"status", "remarks", "marked_by", "updated_at"}),
			}).Create(&record).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked": len(req.Entries), "date": req.Date, "class": req.Class})
}

// ListByStudent returns a student's attendance history, newest first.
func (h *AttendanceHandler) ListByStudent(c *gin.Context) {
	var student models.Student
	if err := database.GetDB().First(&student, "admission_number = ?", c.Param("admission")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}

	var records []models.AttendanceRecord
	query := database.GetDB().Where("student_id = ?", student.ID).Order("date DESC")
	if from := c.Query("from"); from != "" {
		query = query.Where("date >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("date <= ?", to)
	}
	if err := query.Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, records)
}

// ListByDate returns everyone's attendance for one date, optionally
// filtered by class.
func (h *AttendanceHandler) ListByDate(c *gin.Context) {
	date := c.Param("date")
	if !validDate(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	query := database.GetDB().Preload("Student").Where("date = ?", date)
	if class := c.Query("class"); class != "" {
		query = query.Joins("JOIN students ON students.id = attendance_records.student_id").
			Where("students.class = ?", class)
	}

	var records []models.AttendanceRecord
	if err := query.Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, records)
}

// Summaries lists the per-class daily rollups for a date range.
func (h *AttendanceHandler) Summaries(c *gin.Context) {
	query := database.GetDB().Model(&models.AttendanceSummary{}).Order("date DESC, class ASC")
	if from := c.Query("from"); from != "" {
		query = query.Where("date >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("date <= ?", to)
	}
	if class := c.Query("class"); class != "" {
		query = query.Where("class = ?", class)
	}

	var summaries []models.AttendanceSummary
	if err := query.Find(&summaries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// Summarize forces the rollup for a date instead of waiting for the
// nightly worker run.
func (h *AttendanceHandler) Summarize(c *gin.Context) {
	date := c.Param("date")
	if !validDate(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	if err := h.summaryService.Summarize(date); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"summarized": date})
}
