package models

// RoleType defines the user role type
type RoleType string

const (
	RoleParent RoleType = "PARENT"
	RoleDriver RoleType = "DRIVER"
	RoleAdmin  RoleType = "ADMIN"
)

// Valid reports whether the role is one of the known roles.
func (r RoleType) Valid() bool {
	switch r {
	case RoleParent, RoleDriver, RoleAdmin:
		return true
	}
	return false
}

// AttendanceStatus defines the attendance event type
type AttendanceStatus string

const (
	StatusBoarded  AttendanceStatus = "BOARDED"
	StatusAlighted AttendanceStatus = "ALIGHTED"
)

// Valid reports whether the status is one of the known attendance statuses.
func (s AttendanceStatus) Valid() bool {
	return s == StatusBoarded || s == StatusAlighted
}

// NotificationStatus defines the delivery state of a notification
type NotificationStatus string

const (
	NotificationSent   NotificationStatus = "SENT"
	NotificationFailed NotificationStatus = "FAILED"
)
