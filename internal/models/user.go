package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleDoctor  Role = "DOCTOR"
	RolePatient Role = "PATIENT"
	RoleAdmin   Role = "ADMIN"
)

// User is an identity record. Role is immutable after creation.
type User struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `json:"-"`

	// Enum stored as string
	Role Role `gorm:"type:text;not null" json:"role"`

	DoctorProfile  *DoctorProfile  `gorm:"foreignKey:UserID" json:"-"`
	PatientProfile *PatientProfile `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

type DoctorProfile struct {
	ID            string    `gorm:"primaryKey;type:text" json:"id"`
	UserID        string    `gorm:"uniqueIndex;type:text;not null" json:"userId"`
	FullName      string    `gorm:"not null" json:"fullName"`
	Specialty     string    `json:"specialty"`
	HospitalName  string    `json:"hospitalName"`
	LicenseNumber string    `json:"licenseNumber"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (p *DoctorProfile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

type PatientProfile struct {
	ID          string     `gorm:"primaryKey;type:text" json:"id"`
	UserID      string     `gorm:"uniqueIndex;type:text;not null" json:"userId"`
	FullName    string     `gorm:"not null" json:"fullName"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
	Phone       string     `json:"phone"`
	Address     string     `json:"address"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (p *PatientProfile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

// Profile resolves the role-matching profile once at the data-access boundary.
// Callers must have preloaded DoctorProfile/PatientProfile; a user without a
// profile (admins) resolves to nil.
func (u *User) Profile() interface{} {
	switch u.Role {
	case RoleDoctor:
		if u.DoctorProfile != nil {
			return u.DoctorProfile
		}
	case RolePatient:
		if u.PatientProfile != nil {
			return u.PatientProfile
		}
	}
	return nil
}

// FullName returns the display name from whichever profile matches the role
func (u *User) FullName() string {
	switch u.Role {
	case RoleDoctor:
		if u.DoctorProfile != nil {
			return u.DoctorProfile.FullName
		}
	case RolePatient:
		if u.PatientProfile != nil {
			return u.PatientProfile.FullName
		}
	}
	return "Unknown"
}

// PublicUser is the redacted user shape exposed to counterparts
type PublicUser struct {
	ID      string      `json:"id"`
	Email   string      `json:"email"`
	Role    Role        `json:"role"`
	Profile interface{} `json:"profile"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:      u.ID,
		Email:   u.Email,
		Role:    u.Role,
		Profile: u.Profile(),
	}
}
