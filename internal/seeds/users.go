package seeds

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/database"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// SeedUsers provisions the demo accounts: one admin, two doctors, two
// patients. All share the password "password123". Existing accounts are
// left untouched.
func SeedUsers() error {
	log.Println("Seeding users...")

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	passwordHash := string(hash)

	dob1 := time.Date(1985, 3, 15, 0, 0, 0, 0, time.UTC)
	dob2 := time.Date(1990, 7, 22, 0, 0, 0, 0, time.UTC)

	users := []models.User{
		{
			ID:           uuid.New().String(),
			Email:        "admin@healthcare.com",
			PasswordHash: passwordHash,
			Role:         models.RoleAdmin,
		},
		{
			ID:           uuid.New().String(),
			Email:        "dr.smith@healthcare.com",
			PasswordHash: passwordHash,
			Role:         models.RoleDoctor,
			DoctorProfile: &models.DoctorProfile{
				FullName:      "Dr. John Smith",
				Specialty:     "General Medicine",
				HospitalName:  "City General Hospital",
				LicenseNumber: "MD-12345",
			},
		},
		{
			ID:           uuid.New().String(),
			Email:        "dr.johnson@healthcare.com",
			PasswordHash: passwordHash,
			Role:         models.RoleDoctor,
			DoctorProfile: &models.DoctorProfile{
				FullName:      "Dr. Sarah Johnson",
				Specialty:     "Cardiology",
				HospitalName:  "Heart Care Center",
				LicenseNumber: "MD-67890",
			},
		},
		{
			ID:           uuid.New().String(),
			Email:        "patient1@example.com",
			PasswordHash: passwordHash,
			Role:         models.RolePatient,
			PatientProfile: &models.PatientProfile{
				FullName:    "Alice Brown",
				DateOfBirth: &dob1,
				Phone:       "+1-555-0101",
				Address:     "123 Main St, City, ST 12345",
			},
		},
		{
			ID:           uuid.New().String(),
			Email:        "patient2@example.com",
			PasswordHash: passwordHash,
			Role:         models.RolePatient,
			PatientProfile: &models.PatientProfile{
				FullName:    "Bob Wilson",
				DateOfBirth: &dob2,
				Phone:       "+1-555-0102",
				Address:     "456 Oak Ave, City, ST 12345",
			},
		},
	}

	for i := range users {
		var existing models.User
		if err := database.DB.Where("email = ?", users[i].Email).First(&existing).Error; err == nil {
			log.Printf("   User exists, skipping: %s", users[i].Email)
			continue
		}

		if err := database.DB.Create(&users[i]).Error; err != nil {
			return err
		}
		log.Printf("   Created %s: %s", users[i].Role, users[i].Email)
	}

	return nil
}
