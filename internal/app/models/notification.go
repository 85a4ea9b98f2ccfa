package models

import "time"

// Notification defines the notification model based on the 'notifications' table
type Notification struct {
	ID          string             `json:"id" db:"id"`
	RecipientID string             `json:"recipientId" db:"recipient_id"`
	Message     string             `json:"message" db:"message"`
	Status      NotificationStatus `json:"status" db:"status" example:"SENT"`
	CreatedAt   time.Time          `json:"createdAt" db:"created_at"`
}
