package models

import "time"

// Student defines the student model based on the 'students' table
type Student struct {
	ID            string    `json:"id" db:"id"`
	FullName      string    `json:"fullName" db:"full_name" example:"Mehmet Kaya"`
	StudentNumber string    `json:"studentNumber" db:"student_number" example:"20240042"` // Student number (unique)
	SchoolID      string    `json:"schoolId" db:"school_id"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	School *School `json:"school,omitempty"`
}
