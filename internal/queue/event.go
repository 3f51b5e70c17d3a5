// Package queue carries rating activity over RabbitMQ: a publisher used
// by the service layer and a background consumer that writes each event
// to a log file.
package queue

import "time"

// QueueName is the durable queue that receives rating activity.
const QueueName = "rating.activity"

// Event types.
const (
	RatingSubmitted = "rating.submitted"
	RatingUpdated   = "rating.updated"
)

// RatingEvent is published after a rating is created or changed. It
// carries enough for downstream consumers to log or notify without
// reading the primary database.
type RatingEvent struct {
	Type           string    `json:"type"`
	RatingID       string    `json:"rating_id"`
	UserID         string    `json:"user_id"`
	StoreID        string    `json:"store_id"`
	StoreName      string    `json:"store_name"`
	Rating         int       `json:"rating"`
	PreviousRating *int      `json:"previous_rating,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
