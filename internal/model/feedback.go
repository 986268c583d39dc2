package model

import "time"

// Feedback is a customer-submitted comment with an optional star rating.
// Rows are written by the public API and read by the back office; the
// application never updates or deletes them. Corresponds to the `feedback`
// table.
type Feedback struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurant_id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Message      string    `json:"message"`
	Rating       int       `json:"rating"` // 1..5, 0 when not given
	CreatedAt    time.Time `json:"created_at"`
}
