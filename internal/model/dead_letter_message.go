package model

import "time"

// DeadLetterMessage is a progress event Pub/Sub gave up delivering.
type DeadLetterMessage struct {
	ID               string `bson:"_id,omitempty"`
	SubscriptionName string `bson:"subscription_name"`
	MessageID        string `bson:"message_id"`
	// Event fields are filled when the payload decodes as a progress event.
	EventID    string    `bson:"event_id,omitempty"`
	EventType  string    `bson:"event_type,omitempty"`
	UserID     string    `bson:"user_id,omitempty"`
	CourseID   string    `bson:"course_id,omitempty"`
	Payload    string    `bson:"payload"`    // decoded message body
	Attributes *string   `bson:"attributes"` // JSON object, may be nil
	Status     string    `bson:"status"`
	CreatedAt  time.Time `bson:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at"`
}
