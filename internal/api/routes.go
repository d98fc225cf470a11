package api

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/openschool/schoolhub/backend/internal/api/handlers"
	"github.com/openschool/schoolhub/backend/internal/models"
	"github.com/openschool/schoolhub/backend/internal/services"
)

func SetupRouter(authService *services.AuthService, photoPipeline *services.PhotoPipeline, qrService *services.QRCodeService, summaryService *services.SummaryService) *gin.Engine {
	router := gin.Default()
	router.Use(MetricsMiddleware())

	// CORS configuration - allow origins from environment or use defaults
	config := cors.DefaultConfig()
	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		config.AllowOrigins = strings.Split(corsOrigins, ",")
	} else {
		config.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.AllowCredentials = false // Explicitly set
	router.Use(cors.New(config))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	studentHandler := handlers.NewStudentHandler(photoPipeline, qrService)
	attendanceHandler := handlers.NewAttendanceHandler(summaryService)
	feeHandler := handlers.NewFeeHandler()
	academicHandler := handlers.NewAcademicHandler()
	newsHandler := handlers.NewNewsHandler()
	meHandler := handlers.NewMeHandler(studentHandler, attendanceHandler, feeHandler, academicHandler)

	// Serve the hardened upload tree (student photos, gallery)
	if photoPipeline != nil {
		router.Static("/uploads", photoPipeline.Storage().BaseDir())
	}

	// API routes
	api := router.Group("/api")
	{
		// Public routes
		api.POST("/auth/login", authHandler.Login)
		api.GET("/news", newsHandler.ListPublished)
		api.GET("/news/:slug", newsHandler.GetBySlug)
		api.GET("/gallery", newsHandler.ListGallery)

		// Student roster (admin; teachers may read)
		students := api.Group("/students")
		{
			students.GET("", handlers.RequireAuth(authService, models.RoleTeacher), studentHandler.ListStudents)
			students.GET("/:admission", handlers.RequireAuth(authService, models.RoleTeacher), studentHandler.GetStudent)
			students.POST("", handlers.RequireAuth(authService), studentHandler.CreateStudent)
			students.PUT("/:admission", handlers.RequireAuth(authService), studentHandler.UpdateStudent)
			students.DELETE("/:admission", handlers.RequireAuth(authService), studentHandler.DeleteStudent)

			students.POST("/:admission/photo", handlers.RequireAuth(authService), studentHandler.UploadPhoto)
			students.DELETE("/:admission/photo", handlers.RequireAuth(authService), studentHandler.DeletePhoto)
			students.POST("/:admission/photo/thumbnail", handlers.RequireAuth(authService), studentHandler.GenerateThumbnail)
			students.GET("/:admission/idcard-qr", handlers.RequireAuth(authService, models.RoleTeacher), studentHandler.IDCardQR)

			students.GET("/:admission/attendance", handlers.RequireAuth(authService, models.RoleTeacher), attendanceHandler.ListByStudent)
			students.GET("/:admission/fees", handlers.RequireAuth(authService), feeHandler.ListByStudent)
			students.GET("/:admission/academics", handlers.RequireAuth(authService, models.RoleTeacher), academicHandler.ListByStudent)
			students.GET("/:admission/report-card/:term", handlers.RequireAuth(authService, models.RoleTeacher), academicHandler.ReportCard)
		}

		// Attendance (admin/teacher)
		attendance := api.Group("/attendance", handlers.RequireAuth(authService, models.RoleTeacher))
		{
			attendance.POST("", attendanceHandler.Mark)
			attendance.POST("/bulk", attendanceHandler.BulkMark)
			attendance.GET("/date/:date", attendanceHandler.ListByDate)
			attendance.GET("/summaries", attendanceHandler.Summaries)
			attendance.POST("/summaries/:date", attendanceHandler.Summarize)
		}

		// Fees (admin only)
		fees := api.Group("/fees", handlers.RequireAuth(authService))
		{
			fees.POST("/payments", feeHandler.RecordPayment)
			fees.GET("/outstanding", feeHandler.Outstanding)
		}

		// Academics (admin/teacher)
		academics := api.Group("/academics", handlers.RequireAuth(authService, models.RoleTeacher))
		{
			academics.POST("", academicHandler.Upsert)
		}

		// News/gallery management (admin only)
		newsAdmin := api.Group("/news", handlers.RequireAuth(authService))
		{
			newsAdmin.POST("", newsHandler.Create)
			newsAdmin.DELETE("/:slug", newsHandler.Delete)
		}
		api.POST("/gallery", handlers.RequireAuth(authService), newsHandler.AddGalleryImage)

		// Student portal (own record only)
		me := api.Group("/me", handlers.RequireAuth(authService, models.RoleStudent))
		{
			me.GET("", meHandler.Profile)
			me.GET("/attendance", meHandler.Attendance)
			me.GET("/fees", meHandler.Fees)
			me.GET("/academics", meHandler.Academics)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
