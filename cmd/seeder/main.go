package main

import (
	"log"

	"github.com/sikandarmalik/healthcare-messaging-app/internal/config"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/database"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/models"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/seeds"
)

func main() {
	config.LoadConfig()
	database.Connect()

	log.Println("Running migrations (just in case)...")
	if err := database.DB.AutoMigrate(
		&models.User{},
		&models.DoctorProfile{},
		&models.PatientProfile{},
		&models.Conversation{},
		&models.Message{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if err := seeds.SeedUsers(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
