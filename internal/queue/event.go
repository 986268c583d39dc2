// Package queue defines message payloads exchanged over the message broker
// and the background consumer that drains them.
package queue

// FeedbackReceivedEvent is published when a customer submits feedback
// through the public menu. It carries enough for downstream consumers to
// log or notify without querying the primary database.
type FeedbackReceivedEvent struct {
	FeedbackID   string `json:"feedback_id"`
	RestaurantID string `json:"restaurant_id"`
	Name         string `json:"name"`
	Rating       int    `json:"rating"`
	Message      string `json:"message"`
	SubmittedAt  string `json:"submitted_at"`
}
