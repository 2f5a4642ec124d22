package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/database"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/models"
	"github.com/sikandarmalik/healthcare-messaging-app/pkg/utils"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func anonContext(w *httptest.ResponseRecorder, method, target, body string) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c
}

func TestRegisterCreatesPatientAccount(t *testing.T) {
	SetupTestDB(t)
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c := anonContext(w, "POST", "/api/auth/register", `{
		"email": "alice@example.com",
		"password": "password123",
		"fullName": "Alice Brown",
		"dateOfBirth": "1985-03-15",
		"phone": "555-0101"
	}`)
	Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		AccessToken string            `json:"accessToken"`
		User        models.PublicUser `json:"user"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, models.RolePatient, resp.User.Role)
	assert.Equal(t, "alice@example.com", resp.User.Email)

	// The token is valid and carries the new user's identity
	claims, err := utils.ValidateToken(resp.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, string(models.RolePatient), claims.Role)

	var profile models.PatientProfile
	assert.NoError(t, database.DB.First(&profile, "user_id = ?", resp.User.ID).Error)
	assert.Equal(t, "Alice Brown", profile.FullName)
	if assert.NotNil(t, profile.DateOfBirth) {
		assert.Equal(t, 1985, profile.DateOfBirth.Year())
	}

	// The password hash never leaves the server
	assert.NotContains(t, w.Body.String(), "password")
}

func TestRegisterValidation(t *testing.T) {
	SetupTestDB(t)
	gin.SetMode(gin.TestMode)

	// Short password
	w := httptest.NewRecorder()
	c := anonContext(w, "POST", "/api/auth/register", `{"email":"a@b.com","password":"short","fullName":"A"}`)
	Register(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Malformed date of birth
	w = httptest.NewRecorder()
	c = anonContext(w, "POST", "/api/auth/register", `{"email":"a@b.com","password":"password123","fullName":"A","dateOfBirth":"15/03/1985"}`)
	Register(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	database.DB.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	SetupTestDB(t)
	gin.SetMode(gin.TestMode)

	body := `{"email":"alice@example.com","password":"password123","fullName":"Alice Brown"}`

	w := httptest.NewRecorder()
	Register(anonContext(w, "POST", "/api/auth/register", body))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	Register(anonContext(w, "POST", "/api/auth/register", body))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")

	var count int64
	database.DB.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestLogin(t *testing.T) {
	SetupTestDB(t)
	gin.SetMode(gin.TestMode)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user := models.User{
		ID:           "doc1",
		Email:        "dr.smith@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleDoctor,
		DoctorProfile: &models.DoctorProfile{
			FullName:  "Dr. Smith",
			Specialty: "Cardiology",
		},
	}
	database.DB.Create(&user)

	w := httptest.NewRecorder()
	Login(anonContext(w, "POST", "/api/auth/login", `{"email":"dr.smith@example.com","password":"password123"}`))
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		AccessToken string            `json:"accessToken"`
		User        models.PublicUser `json:"user"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, models.RoleDoctor, resp.User.Role)

	// Wrong password and unknown email produce the same response
	w = httptest.NewRecorder()
	Login(anonContext(w, "POST", "/api/auth/login", `{"email":"dr.smith@example.com","password":"wrong-password"}`))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")

	w = httptest.NewRecorder()
	Login(anonContext(w, "POST", "/api/auth/login", `{"email":"nobody@example.com","password":"password123"}`))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
}

func TestMe(t *testing.T) {
	SetupTestDB(t)
	gin.SetMode(gin.TestMode)

	doctor := createTestDoctor(t, "doc1", "doc1@example.com", "Dr. Smith")

	w := httptest.NewRecorder()
	c := testContext(w, "GET", "/api/auth/me", "", doctor)
	Me(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var user models.PublicUser
	json.Unmarshal(w.Body.Bytes(), &user)
	assert.Equal(t, doctor.ID, user.ID)
	assert.Equal(t, models.RoleDoctor, user.Role)

	profile, ok := user.Profile.(map[string]interface{})
	if assert.True(t, ok) {
		assert.Equal(t, "Dr. Smith", profile["fullName"])
	}
}

func TestLogoutWithoutClaimsStillSucceeds(t *testing.T) {
	SetupTestDB(t)
	gin.SetMode(gin.TestMode)

	doctor := createTestDoctor(t, "doc1", "doc1@example.com", "Dr. Smith")

	w := httptest.NewRecorder()
	c := testContext(w, "POST", "/api/auth/logout", "", doctor)
	Logout(c)

	assert.Equal(t, http.StatusOK, w.Code)
}
