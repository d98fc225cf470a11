package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openschool/schoolhub/backend/internal/database"
	"github.com/openschool/schoolhub/backend/internal/models"
)

type NewsHandler struct{}

func NewNewsHandler() *NewsHandler {
	return &NewsHandler{}
}

// ListPublished returns published posts for the public news page.
func (h *NewsHandler) ListPublished(c *gin.Context) {
	var posts []models.NewsPost
	err := database.GetDB().
		Where("published = ?", true).
		Order("published_at DESC").
		Limit(50).
		Find(&posts).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *NewsHandler) GetBySlug(c *gin.Context) {
	var post models.NewsPost
	err := database.GetDB().
		First(&post, "slug = ? AND published = ?", c.Param("slug"), true).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	c.JSON(http.StatusOK, post)
}

// Create adds a post; published posts get a publish timestamp immediately.
func (h *NewsHandler) Create(c *gin.Context) {
	var req models.CreateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post := models.NewsPost{
		Title:     req.Title,
		Slug:      req.Slug,
		Body:      req.Body,
		Published: req.Published,
	}
	if req.Published {
		now := time.Now()
		post.PublishedAt = &now
	}

	if err := database.GetDB().Create(&post).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "slug already in use"})
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *NewsHandler) Delete(c *gin.Context) {
	result := database.GetDB().Where("slug = ?", c.Param("slug")).Delete(&models.NewsPost{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": result.RowsAffected > 0})
}

// ListGallery returns the public gallery, newest first.
func (h *NewsHandler) ListGallery(c *gin.Context) {
	var images []models.GalleryImage
	if err := database.GetDB().Order("created_at DESC").Find(&images).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, images)
}

// AddGalleryImage registers an already-uploaded image in the gallery.
func (h *NewsHandler) AddGalleryImage(c *gin.Context) {
	var req struct {
		Title string `json:"title"`
		Path  string `json:"path" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	image := models.GalleryImage{Title: req.Title, Path: req.Path}
	if err := database.GetDB().Create(&image).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, image)
}
