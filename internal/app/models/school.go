package models

// School defines the school model based on the 'schools' table
type School struct {
	ID              string `json:"id" db:"id"`
	Name            string `json:"name" db:"name"`                          // School name (unique)
	Address         string `json:"address" db:"address"`                    // School street address
	ContactPersonID string `json:"contactPersonId" db:"contact_person_id"`  // ID of the responsible user

	// Relations (populated when needed)
	ContactPerson *User `json:"contactPerson,omitempty"`
}
