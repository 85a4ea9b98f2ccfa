package websocket

import "time"

// Event is the payload broadcast to the subscribers of a bus topic.
// Location reports carry speed; attendance events carry status.
type Event struct {
	BusID     string    `json:"bus_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Speed     *float64  `json:"speed,omitempty"`
	Status    *string   `json:"status,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
