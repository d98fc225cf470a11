package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openschool/schoolhub/backend/internal/database"
	"github.com/openschool/schoolhub/backend/internal/models"
)

// MeHandler serves the student portal: a logged-in student reads their own
// record through the admission number carried in the token claims.
type MeHandler struct {
	students   *StudentHandler
	attendance *AttendanceHandler
	fees       *FeeHandler
	academics  *AcademicHandler
}

func NewMeHandler(students *StudentHandler, attendance *AttendanceHandler, fees *FeeHandler, academics *AcademicHandler) *MeHandler {
	return &MeHandler{
		students:   students,
		attendance: attendance,
		fees:       fees,
		academics:  academics,
	}
}

// withOwnAdmission rewrites the :admission param to the caller's own
// admission number before delegating to the shared handler.
func (h *MeHandler) withOwnAdmission(c *gin.Context, next gin.HandlerFunc) {
	claims := ClaimsFrom(c)
	if claims == nil || claims.AdmissionNumber == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "account is not linked to a student record"})
		return
	}

	var student models.Student
	if err := database.GetDB().First(&student, "admission_number = ?", claims.AdmissionNumber).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "student record not found"})
		return
	}

	c.Params = append(c.Params, gin.Param{Key: "admission", Value: claims.AdmissionNumber})
	next(c)
}

func (h *MeHandler) Profile(c *gin.Context) {
	h.withOwnAdmission(c, h.students.GetStudent)
}

func (h *MeHandler) Attendance(c *gin.Context) {
	h.withOwnAdmission(c, h.attendance.ListByStudent)
}

func (h *MeHandler) Fees(c *gin.Context) {
	h.withOwnAdmission(c, h.fees.ListByStudent)
}

func (h *MeHandler) Academics(c *gin.Context) {
	h.withOwnAdmission(c, h.academics.ListByStudent)
}
