package domain

import "time"

// Event is broadcast to other instances and realtime clients when cached
// content is evicted.
type Event struct {
	Type   string    `json:"type"`
	Key    string    `json:"key,omitempty"`
	Origin string    `json:"origin"`
	Time   time.Time `json:"time"`
}
