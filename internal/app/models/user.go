package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID          string    `json:"id" db:"id" example:"0b8f7a6e-2c58-4b86-9f3d-6f1f7f0a9f11"`  // Unique identifier for the user
	FullName    string    `json:"fullName" db:"full_name" example:"Ayşe Yılmaz"`              // User's full name
	Email       string    `json:"email" db:"email" example:"parent@example.com"`              // User's email address (unique)
	PhoneNumber string    `json:"phoneNumber" db:"phone_number" example:"+905551112233"`      // User's phone number (unique)
	Password    string    `json:"-" db:"password_hash"`                                       // User's hashed password (excluded from JSON)
	Role        RoleType  `json:"role" db:"role" example:"PARENT"`                            // User's role (PARENT, DRIVER or ADMIN)
	CreatedAt   time.Time `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`   // Timestamp when the user was created
}
