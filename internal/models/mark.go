package models

import "time"

// Mark is one jury member's evaluation of one team within one session. The
// composite unique index is the authoritative guard against duplicate
// submissions for the same (team, jury, session) triple.
type Mark struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TeamID       uint      `gorm:"not null;uniqueIndex:idx_mark_unique" json:"team_id"`
	JuryID       uint      `gorm:"not null;uniqueIndex:idx_mark_unique" json:"jury_id"`
	SessionID    uint      `gorm:"not null;uniqueIndex:idx_mark_unique" json:"session_id"`
	Innovation   int       `gorm:"not null" json:"innovation"`
	Execution    int       `gorm:"not null" json:"execution"`
	Presentation int       `gorm:"not null" json:"presentation"`
	Impact       int       `gorm:"not null" json:"impact"`
	Submitted    bool      `gorm:"not null;default:false" json:"submitted"`
	Locked       bool      `gorm:"not null;default:false" json:"locked"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ScoreUnset marks a rubric dimension the jury has not scored yet.
const ScoreUnset = -1
