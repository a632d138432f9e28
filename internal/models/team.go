package models

import "time"

type Team struct {
	ID       uint        `gorm:"primaryKey" json:"id"`
	Name     string      `gorm:"size:255;not null" json:"name"`
	LeaderID uint        `gorm:"not null;uniqueIndex" json:"leader_id"`
	Leader   Participant `gorm:"foreignKey:LeaderID" json:"leader,omitempty"`
	Venue    string      `gorm:"size:100" json:"venue,omitempty"`
	// JuryID is the current assignment for this evaluation cycle; cleared
	// when the jury submits a mark for the team.
	JuryID    *uint        `json:"jury_id"`
	Members   []TeamMember `gorm:"foreignKey:TeamID" json:"members,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

type TeamMember struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	TeamID        uint        `gorm:"not null;uniqueIndex:idx_team_member" json:"team_id"`
	ParticipantID uint        `gorm:"not null;uniqueIndex:idx_team_member" json:"participant_id"`
	Participant   Participant `gorm:"foreignKey:ParticipantID" json:"participant,omitempty"`
	JoinedAt      time.Time   `json:"joined_at"`
}
