package models

import (
	"time"

	"gorm.io/datatypes"
)

type Session struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	StartedAt   *time.Time     `json:"started_at"`
	EndedAt     *time.Time     `json:"ended_at"`
	Draft       bool           `gorm:"not null;default:false" json:"draft"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	DraftConfig datatypes.JSON `json:"draft_config,omitempty"`
	Memberships []SessionJury  `gorm:"foreignKey:SessionID" json:"memberships,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

const (
	SessionStatePending = "pending"
	SessionStateActive  = "active"
	SessionStateEnded   = "ended"
)

// State derives the lifecycle state from the two timestamps. Transitions only
// ever move forward: pending -> active -> ended.
func (s *Session) State() string {
	switch {
	case s.EndedAt != nil:
		return SessionStateEnded
	case s.StartedAt != nil:
		return SessionStateActive
	default:
		return SessionStatePending
	}
}

// SessionJury is the authoritative jury<->session membership. The singular
// Jury.CurrentSessionID is a projection recomputed from these rows.
type SessionJury struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID uint      `gorm:"not null;uniqueIndex:idx_session_jury" json:"session_id"`
	JuryID    uint      `gorm:"not null;uniqueIndex:idx_session_jury" json:"jury_id"`
	JoinedAt  time.Time `json:"joined_at"`
}
