package handlers_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openschool/schoolhub/backend/internal/api"
	"github.com/openschool/schoolhub/backend/internal/database"
	"github.com/openschool/schoolhub/backend/internal/models"
	"github.com/openschool/schoolhub/backend/internal/services"
)

func setupTestServer(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	t.Setenv("JWT_SECRET", "handler-test-secret")
	t.Setenv("UPLOAD_DIR", t.TempDir())

	if err := database.Initialize(filepath.Join(t.TempDir(), "test.db")); err != nil {
		t.Fatalf("failed to initialize database: %v", err)
	}

	hash, err := services.HashPassword("admin-pass")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	admin := models.User{Username: "admin", PasswordHash: hash, Role: models.RoleAdmin}
	if err := database.GetDB().Create(&admin).Error; err != nil {
		t.Fatalf("failed to seed admin user: %v", err)
	}

	authService := services.NewAuthService()
	token, err := authService.IssueToken(&admin, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	router := api.SetupRouter(authService, services.NewPhotoPipeline(), services.NewQRCodeService(), services.NewSummaryService())
	return router, token
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func testPhotoBase64(t *testing.T) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 200, 300))
	for y := 0; y < 300; y++ {
		for x := 0; x < 200; x++ {
			img.Set(x, y, color.RGBA{R: 90, G: 90, B: 160, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestStudentLifecycleWithPhoto(t *testing.T) {
	router, token := setupTestServer(t)

	// Create
	rec := doJSON(t, router, http.MethodPost, "/api/students", token, models.CreateStudentRequest{
		AdmissionNumber: "ADM-2026-042",
		FirstName:       "Wanjiru",
		LastName:        "Kamau",
		Class:           "Form 2",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create student: status %d, body %s", rec.Code, rec.Body.String())
	}

	// Photo upload via base64 body
	rec = doJSON(t, router, http.MethodPost, "/api/students/ADM-2026-042/photo", token, gin.H{
		"photo_data": testPhotoBase64(t),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("upload photo: status %d, body %s", rec.Code, rec.Body.String())
	}

	var photoResult services.PhotoResult
	if err := json.Unmarshal(rec.Body.Bytes(), &photoResult); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if !photoResult.Success || photoResult.Path == nil {
		t.Fatalf("unexpected photo result: %+v", photoResult)
	}
	if !strings.HasPrefix(*photoResult.Path, "students/") {
		t.Errorf("stored path = %q, want students/... prefix", *photoResult.Path)
	}

	// Fetch resolves to the stored photo
	rec = doJSON(t, router, http.MethodGet, "/api/students/ADM-2026-042", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get student: status %d", rec.Code)
	}
	var fetched struct {
		PhotoURL string `json:"photo_url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("failed to decode student: %v", err)
	}
	if fetched.PhotoURL != "/uploads/"+*photoResult.Path {
		t.Errorf("photo_url = %q, want /uploads/%s", fetched.PhotoURL, *photoResult.Path)
	}

	// Delete photo, then the placeholder takes over
	rec = doJSON(t, router, http.MethodDelete, "/api/students/ADM-2026-042/photo", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete photo: status %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodGet, "/api/students/ADM-2026-042", token, nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("failed to decode student: %v", err)
	}
	if fetched.PhotoURL != "/uploads/"+services.PlaceholderPhotoPath {
		t.Errorf("photo_url after delete = %q, want placeholder", fetched.PhotoURL)
	}
}

func TestUploadPhotoNoSource(t *testing.T) {
	router, token := setupTestServer(t)

	rec := doJSON(t, router, http.MethodPost, "/api/students", token, models.CreateStudentRequest{
		AdmissionNumber: "ADM050",
		FirstName:       "Otieno",
		LastName:        "Odhiambo",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create student: status %d", rec.Code)
	}

	// Empty body: the no-photo skip path, not an error
	rec = doJSON(t, router, http.MethodPost, "/api/students/ADM050/photo", token, gin.H{})
	if rec.Code != http.StatusOK {
		t.Fatalf("no-source upload: status %d, body %s", rec.Code, rec.Body.String())
	}

	var result services.PhotoResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if !result.Success || result.Path != nil {
		t.Errorf("expected success with nil path, got %+v", result)
	}
}

func TestUploadPhotoCorruptPayload(t *testing.T) {
	router, token := setupTestServer(t)

	rec := doJSON(t, router, http.MethodPost, "/api/students", token, models.CreateStudentRequest{
		AdmissionNumber: "ADM051",
		FirstName:       "Achieng",
		LastName:        "Owuor",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create student: status %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/students/ADM051/photo", token, gin.H{
		"photo_data": "%%%not-base64%%%",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("corrupt upload: status %d, want 400", rec.Code)
	}

	var result services.PhotoResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if result.Success || len(result.Errors) == 0 {
		t.Errorf("expected failure with errors, got %+v", result)
	}
}

func TestAuthRequired(t *testing.T) {
	router, _ := setupTestServer(t)

	rec := doJSON(t, router, http.MethodGet, "/api/students", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated list: status %d, want 401", rec.Code)
	}
}

func TestLogin(t *testing.T) {
	router, _ := setupTestServer(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login", "", models.LoginRequest{
		Username: "admin",
		Password: "admin-pass",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status %d, body %s", rec.Code, rec.Body.String())
	}

	var resp models.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if resp.Token == "" || resp.Role != models.RoleAdmin {
		t.Errorf("unexpected login response: %+v", resp)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/auth/login", "", models.LoginRequest{
		Username: "admin",
		Password: "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad login: status %d, want 401", rec.Code)
	}
}
