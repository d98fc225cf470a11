package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openschool/schoolhub/backend/internal/database"
	"github.com/openschool/schoolhub/backend/internal/models"
	"github.com/openschool/schoolhub/backend/internal/services"
)

type StudentHandler struct {
	photoPipeline *services.PhotoPipeline
	qrService     *services.QRCodeService
}

func NewStudentHandler(pipeline *services.PhotoPipeline, qr *services.QRCodeService) *StudentHandler {
	return &StudentHandler{
		photoPipeline: pipeline,
		qrService:     qr,
	}
}

// studentResponse wraps a Student with the photo path resolved at read
// time: externally deleted files degrade to the placeholder.
type studentResponse struct {
	models.Student
	PhotoURL string `json:"photo_url"`
}

func (h *StudentHandler) respond(s models.Student) studentResponse {
	resolved := h.photoPipeline.Storage().Resolve(s.PhotoPath, services.PlaceholderPhotoPath)
	return studentResponse{Student: s, PhotoURL: "/uploads/" + resolved}
}

func (h *StudentHandler) ListStudents(c *gin.Context) {
	db := database.GetDB()

	query := db.Model(&models.Student{}).Order("admission_number ASC")
	if class := c.Query("class"); class != "" {
		query = query.Where("class = ?", class)
	}
	if search := c.Query("q"); search != "" {
		like := "%" + search + "%"
		query = query.Where("admission_number LIKE ? OR first_name LIKE ? OR last_name LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if v, err := strconv.Atoi(limitStr); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	offset, _ := strconv.Atoi(c.Query("offset"))

	var students []models.Student
	if err := query.Limit(limit).Offset(offset).Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]studentResponse, 0, len(students))
	for _, s := range students {
		resp = append(resp, h.respond(s))
	}

	c.JSON(http.StatusOK, gin.H{
		"students":    resp,
		"total_count": total,
		"has_more":    int64(offset+len(students)) < total,
	})
}

func (h *StudentHandler) GetStudent(c *gin.Context) {
	var student models.Student
	if err := database.GetDB().First(&student, "admission_number = ?", c.Param("admission")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}
	c.JSON(http.StatusOK, h.respond(student))
}

func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req models.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if services.SanitizeAdmissionNumber(req.AdmissionNumber) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid admission number"})
		return
	}

	db := database.GetDB()

	var existing models.Student
	if err := db.First(&existing, "admission_number = ?", req.AdmissionNumber).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "admission number already registered"})
		return
	}

	student := models.Student{
		AdmissionNumber: req.AdmissionNumber,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Class:           req.Class,
		Section:         req.Section,
		DateOfBirth:     req.DateOfBirth,
		GuardianName:    req.GuardianName,
		GuardianPhone:   req.GuardianPhone,
		Address:         req.Address,
		AdmittedAt:      time.Now(),
	}

	if err := db.Create(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, h.respond(student))
}

func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	var req models.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var student models.Student
	if err := db.First(&student, "admission_number = ?", c.Param("admission")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}

	if req.FirstName != nil {
		student.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		student.LastName = *req.LastName
	}
	if req.Class != nil {
		student.Class = *req.Class
	}
	if req.Section != nil {
		student.Section = *req.Section
	}
	if req.DateOfBirth != nil {
		student.DateOfBirth = req.DateOfBirth
	}
	if req.GuardianName != nil {
		student.GuardianName = *req.GuardianName
	}
	if req.GuardianPhone != nil {
		student.GuardianPhone = *req.GuardianPhone
	}
	if req.Address != nil {
		student.Address = *req.Address
	}

	if err := db.Save(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.respond(student))
}

func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	db := database.GetDB()

	var student models.Student
	if err := db.First(&student, "admission_number = ?", c.Param("admission")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}

	if err := db.Delete(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Stored photo removal is idempotent and best-effort
	if student.PhotoPath != "" {
		if err := h.photoPipeline.Delete(student.PhotoPath); err != nil {
			c.JSON(http.StatusOK, gin.H{"deleted": true, "warning": "photo could not be removed"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// UploadPhoto ingests a student photo from either a multipart "photo"
// field or a base64 "photo_data" value (JSON body or form field). When
// both arrive, the file upload wins.
func (h *StudentHandler) UploadPhoto(c *gin.Context) {
	db := database.GetDB()

	var student models.Student
	if err := db.First(&student, "admission_number = ?", c.Param("admission")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}

	var file *services.FileUpload
	if fh, err := c.FormFile("photo"); err == nil {
		file = services.FileUploadFromMultipart(fh)
	}

	var capture *services.CameraCapture
	if data := c.PostForm("photo_data"); data != "" {
		capture = &services.CameraCapture{Data: data}
	} else if file == nil {
		var req struct {
			PhotoData string `json:"photo_data"`
		}
		if err := c.ShouldBindJSON(&req); err == nil && req.PhotoData != "" {
			capture = &services.CameraCapture{Data: req.PhotoData}
		}
	}

	result := h.photoPipeline.Ingest(student.AdmissionNumber, services.ChooseSource(file, capture))
	if !result.Success {
		c.JSON(http.StatusBadRequest, result)
		return
	}

	// Nil path means no photo was supplied; the previous photo if any is
	// left untouched
	if result.Path != nil {
		student.PhotoPath = *result.Path
		if err := db.Save(&student).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, result)
}

// DeletePhoto removes the stored photo and clears the student's path.
// Deleting an already-missing photo succeeds.
func (h *StudentHandler) DeletePhoto(c *gin.Context) {
	db := database.GetDB()

	var student models.Student
	if err := db.First(&student, "admission_number = ?", c.Param("admission")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}

	if student.PhotoPath != "" {
		if err := h.photoPipeline.Delete(student.PhotoPath); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		student.PhotoPath = ""
		if err := db.Save(&student).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// GenerateThumbnail derives the list-view thumbnail for a stored photo.
func (h *StudentHandler) GenerateThumbnail(c *gin.Context) {
	var student models.Student
	if err := database.GetDB().First(&student, "admission_number = ?", c.Param("admission")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}

	width, _ := strconv.Atoi(c.DefaultQuery("width", "100"))
	height, _ := strconv.Atoi(c.DefaultQuery("height", "100"))

	thumb := h.photoPipeline.Storage().GenerateThumbnail(student.PhotoPath, width, height)
	if thumb == nil {
		c.JSON(http.StatusOK, gin.H{"thumbnail": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"thumbnail": *thumb})
}

// IDCardQR returns the PNG QR code printed on the student's ID card.
func (h *StudentHandler) IDCardQR(c *gin.Context) {
	var student models.Student
	if err := database.GetDB().First(&student, "admission_number = ?", c.Param("admission")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}

	png, err := h.qrService.IDCardQR(student.AdmissionNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
