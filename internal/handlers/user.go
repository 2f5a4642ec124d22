package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/database"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/models"
)

// actorFrom pulls the authenticated identity out of the request context.
// AuthMiddleware guarantees both keys are set.
func actorFrom(c *gin.Context) (string, models.Role) {
	return c.MustGet("userId").(string), c.MustGet("role").(models.Role)
}

// GetDoctors lists the doctor directory. Patients use this to pick a doctor
// to start a conversation with.
func GetDoctors(c *gin.Context) {
	var doctors []models.User
	if err := database.DB.
		Preload("DoctorProfile").
		Where("role = ?", models.RoleDoctor).
		Find(&doctors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch doctors"})
		return
	}

	out := make([]models.PublicUser, 0, len(doctors))
	for i := range doctors {
		out = append(out, doctors[i].Public())
	}

	c.JSON(http.StatusOK, out)
}

// GetPatients lists the patient directory. Restricted to DOCTOR and ADMIN
// at the route level.
func GetPatients(c *gin.Context) {
	var patients []models.User
	if err := database.DB.
		Preload("PatientProfile").
		Where("role = ?", models.RolePatient).
		Find(&patients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch patients"})
		return
	}

	out := make([]models.PublicUser, 0, len(patients))
	for i := range patients {
		out = append(out, patients[i].Public())
	}

	c.JSON(http.StatusOK, out)
}
