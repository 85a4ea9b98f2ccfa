package models

// Bus defines the bus model based on the 'buses' table
type Bus struct {
	ID              string  `json:"id" db:"id"`
	PlateNumber     string  `json:"plateNumber" db:"plate_number" example:"34 ABC 123"` // Vehicle plate (unique)
	Capacity        int     `json:"capacity" db:"capacity" example:"24"`                // Seat capacity, must be positive
	SchoolID        string  `json:"schoolId" db:"school_id"`                            // School this bus serves
	CurrentDriverID *string `json:"currentDriverId,omitempty" db:"current_driver_id"`   // Driver currently holding the bus (nullable)

	// Relations (populated when needed)
	School        *School `json:"school,omitempty"`
	CurrentDriver *User   `json:"currentDriver,omitempty"`
}
