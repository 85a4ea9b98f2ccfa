package dto

import "github.com/deniz/fleettrack/internal/app/models"

// CreateSchoolRequest represents the payload for creating a school
type CreateSchoolRequest struct {
	Name            string `json:"name" binding:"required"`
	Address         string `json:"address" binding:"required"`
	ContactPersonID string `json:"contactPersonId" binding:"required,uuid"`
}

// UpdateSchoolRequest represents the payload for updating a school
type UpdateSchoolRequest struct {
	Name            string `json:"name" binding:"required"`
	Address         string `json:"address" binding:"required"`
	ContactPersonID string `json:"contactPersonId" binding:"required,uuid"`
}

// CreateUserRequest represents the payload for an admin creating a user
type CreateUserRequest struct {
	FullName    string          `json:"fullName" binding:"required"`
	Email       string          `json:"email" binding:"required,email"`
	PhoneNumber string          `json:"phoneNumber" binding:"required"`
	Password    string          `json:"password" binding:"required,min=8"`
	Role        models.RoleType `json:"role" binding:"required"`
}

// UpdateUserRequest represents the payload for updating a user
type UpdateUserRequest struct {
	FullName    string `json:"fullName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

// CreateStudentRequest represents the payload for creating a student
type CreateStudentRequest struct {
	FullName      string `json:"fullName" binding:"required"`
	StudentNumber string `json:"studentNumber" binding:"required"`
	SchoolID      string `json:"schoolId" binding:"required,uuid"`
}

// UpdateStudentRequest represents the payload for updating a student
type UpdateStudentRequest struct {
	FullName      string `json:"fullName" binding:"required"`
	StudentNumber string `json:"studentNumber" binding:"required"`
	SchoolID      string `json:"schoolId" binding:"required,uuid"`
}

// CreateBusRequest represents the payload for creating a bus
type CreateBusRequest struct {
	PlateNumber string  `json:"plateNumber" binding:"required"`
	Capacity    int     `json:"capacity" binding:"required,min=1"`
	SchoolID    string  `json:"schoolId" binding:"required,uuid"`
	DriverID    *string `json:"driverId,omitempty" binding:"omitempty,uuid"`
}

// UpdateBusRequest represents the payload for updating a bus
type UpdateBusRequest struct {
	PlateNumber string `json:"plateNumber" binding:"required"`
	Capacity    int    `json:"capacity" binding:"required,min=1"`
	SchoolID    string `json:"schoolId" binding:"required,uuid"`
}

// AssignParentRequest links a parent to a student
type AssignParentRequest struct {
	ParentID string `json:"parentId" binding:"required,uuid"`
}

// AssignBusRequest links a student to a bus
type AssignBusRequest struct {
	BusID string `json:"busId" binding:"required,uuid"`
}

// AssignDriverRequest sets the current driver of a bus
type AssignDriverRequest struct {
	DriverID string `json:"driverId" binding:"required,uuid"`
}

// AttendanceLogFilter narrows the admin attendance log listing
type AttendanceLogFilter struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	BusID     string `form:"bus_id"`
	StudentID string `form:"student_id"`
}
