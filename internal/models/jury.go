package models

import "time"

type Jury struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:255;not null" json:"name"`
	Email string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone string `gorm:"size:20" json:"phone,omitempty"`
	// CurrentSessionID is a convenience projection of the SessionJury
	// memberships; it is never written directly by handlers.
	CurrentSessionID *uint     `json:"current_session_id"`
	AccessToken      string    `gorm:"size:36;uniqueIndex" json:"access_token,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
