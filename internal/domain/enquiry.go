package domain

import "time"

// Enquiry is a booking request submitted through the contact form.
type Enquiry struct {
	ID          string    `json:"id"`
	FullName    string    `json:"fullName"`
	Phone       string    `json:"phone"`
	EventType   string    `json:"eventType"`
	EventDate   string    `json:"eventDate"`
	Location    string    `json:"location"`
	Message     string    `json:"message"`
	WhatsAppURL string    `json:"whatsappUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}
