package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/config"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/database"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/models"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/routes"
	"github.com/sikandarmalik/healthcare-messaging-app/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.Init("test")
	config.AppConfig = &config.Config{
		JWTSecret:  "test_secret_key_12345",
		UploadsDir: t.TempDir(),
	}

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test DB: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.DoctorProfile{},
		&models.PatientProfile{},
		&models.Conversation{},
		&models.Message{},
		&models.AuditLog{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test DB: %v", err)
	}

	// Handlers and middleware read the global DB
	database.DB = db

	for _, table := range []string{"audit_logs", "messages", "conversations", "patient_profiles", "doctor_profiles", "users"} {
		db.Exec("DELETE FROM " + table)
	}

	return db
}

// setupRouter mirrors the /api group structure of cmd/server, without the
// rate limiters so tests can hammer the endpoints
func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	api := r.Group("/api")
	{
		routes.RegisterAuthRoutes(api.Group("/auth"))
		routes.RegisterUserRoutes(api)
		routes.RegisterConversationRoutes(api)
		routes.RegisterAdminRoutes(api)
	}

	return r
}

// seedUser writes a user row directly and returns a token via the login
// endpoint, so the whole auth path is exercised
func seedUser(t *testing.T, r *gin.Engine, email string, role models.Role, fullName string) (string, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	switch role {
	case models.RoleDoctor:
		user.DoctorProfile = &models.DoctorProfile{FullName: fullName, Specialty: "General Medicine"}
	case models.RolePatient:
		user.PatientProfile = &models.PatientProfile{FullName: fullName}
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed user %s: %v", email, err)
	}

	w := performRequest(r, "POST", "/api/auth/login", map[string]interface{}{
		"email":    email,
		"password": "password123",
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Login failed for %s: %d %s", email, w.Code, w.Body.String())
	}

	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	return user.ID, resp.AccessToken
}

func performRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var bodyReader *strings.Reader
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		bodyReader = strings.NewReader(string(jsonBytes))
	} else {
		bodyReader = strings.NewReader("")
	}

	req, _ := http.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
