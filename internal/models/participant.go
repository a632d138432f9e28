package models

import "time"

type Participant struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Email       string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Institution string    `gorm:"size:255" json:"institution,omitempty"`
	Phone       string    `gorm:"size:20" json:"phone,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
