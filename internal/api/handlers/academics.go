package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"

	"github.com/openschool/schoolhub/backend/internal/database"
	"github.com/openschool/schoolhub/backend/internal/models"
)

type AcademicHandler struct{}

func NewAcademicHandler() *AcademicHandler {
	return &AcademicHandler{}
}

// Upsert writes one subject score; re-entering the same (student, term,
// subject) replaces the previous score and grade.
func (h *AcademicHandler) Upsert(c *gin.Context) {
	var req models.UpsertAcademicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Score < 0 || req.Score > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "score must be between 0 and 100"})
		return
	}

	db := database.GetDB()

	var student models.Student
	if err := db.First(&student, req.StudentID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "student not found"})
		return
	}

	enteredBy := ""
	if claims := ClaimsFrom(c); claims != nil {
		enteredBy = claims.Username
	}

	record := models.AcademicRecord{
		StudentID: req.StudentID,
		Term:      req.Term,
		Subject:   req.Subject,
		Score:     req.Score,
		Grade:     models.GradeForScore(req.Score),
		Remarks:   req.Remarks,
		EnteredBy: enteredBy,
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "term"}, {Name: "subject"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "grade", "remarks", "entered_by", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, record)
}

// ListByStudent returns a student's academic records, optionally for one term.
func (h *AcademicHandler) ListByStudent(c *gin.Context) {
	var student models.Student
	if err := database.GetDB().First(&student, "admission_number = ?", c.Param("admission")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}

	query := database.GetDB().Where("student_id = ?", student.ID).Order("term DESC, subject ASC")
	if term := c.Query("term"); term != "" {
		query = query.Where("term = ?", term)
	}

	var records []models.AcademicRecord
	if err := query.Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, records)
}

// ReportCard aggregates one term into per-subject rows plus an average.
func (h *AcademicHandler) ReportCard(c *gin.Context) {
	var student models.Student
	if err := database.GetDB().First(&student, "admission_number = ?", c.Param("admission")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}

	term := c.Param("term")

	var records []models.AcademicRecord
	err := database.GetDB().
		Where("student_id = ? AND term = ?", student.ID, term).
		Order("subject ASC").
		Find(&records).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var average float64
	if len(records) > 0 {
		for _, r := range records {
			average += r.Score
		}
		average /= float64(len(records))
	}

	c.JSON(http.StatusOK, gin.H{
		"student_id":       student.ID,
		"admission_number": student.AdmissionNumber,
		"term":             term,
		"subjects":         records,
		"average":          average,
		"average_grade":    models.GradeForScore(average),
	})
}
