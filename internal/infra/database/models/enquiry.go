package models

import (
	"time"
)

type Enquiry struct {
	ID          string    `json:"id" gorm:"primaryKey;type:text"`
	FullName    string    `json:"fullName" gorm:"type:text;not null"`
	Phone       string    `json:"phone" gorm:"type:text;not null;index"`
	EventType   string    `json:"eventType" gorm:"type:text"`
	EventDate   string    `json:"eventDate" gorm:"type:text"`
	Location    string    `json:"location" gorm:"type:text"`
	Message     string    `json:"message" gorm:"type:text"`
	WhatsAppURL string    `json:"whatsappUrl" gorm:"type:text"`
	CDate       time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp();index"`
}
