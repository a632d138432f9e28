package services

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"evalease-backend/internal/models"

	"gorm.io/gorm"
)

// AssignmentService maintains the jury<->session membership junction and the
// per-cycle team->jury assignment.
type AssignmentService struct {
	db *gorm.DB
}

func NewAssignmentService(db *gorm.DB) *AssignmentService {
	return &AssignmentService{db: db}
}

// AssignJuryToSession adds the jury to the session's membership set.
// Re-assigning an existing member is a no-op.
func (s *AssignmentService) AssignJuryToSession(juryID, sessionID uint) error {
	var jury models.Jury
	if err := s.db.First(&jury, juryID).Error; err != nil {
		return fmt.Errorf("%w: jury %d", ErrNotFound, juryID)
	}
	var session models.Session
	if err := s.db.First(&session, sessionID).Error; err != nil {
		return fmt.Errorf("%w: session %d", ErrNotFound, sessionID)
	}

	membership := models.SessionJury{SessionID: sessionID, JuryID: juryID}
	err := s.db.Where("session_id = ? AND jury_id = ?", sessionID, juryID).
		Attrs(models.SessionJury{JoinedAt: time.Now()}).
		FirstOrCreate(&membership).Error
	if err != nil {
		return err
	}

	return s.recomputeCurrentSession(s.db, juryID)
}

// RemoveJuryFromSession removes the membership. Removing a jury that is not a
// member is a no-op; marks are never touched.
func (s *AssignmentService) RemoveJuryFromSession(juryID, sessionID uint) error {
	var jury models.Jury
	if err := s.db.First(&jury, juryID).Error; err != nil {
		return fmt.Errorf("%w: jury %d", ErrNotFound, juryID)
	}
	var session models.Session
	if err := s.db.First(&session, sessionID).Error; err != nil {
		return fmt.Errorf("%w: session %d", ErrNotFound, sessionID)
	}

	if err := s.db.Where("session_id = ? AND jury_id = ?", sessionID, juryID).
		Delete(&models.SessionJury{}).Error; err != nil {
		return err
	}

	return s.recomputeCurrentSession(s.db, juryID)
}

// recomputeCurrentSession re-derives the jury's singular current-session
// projection from the membership junction: the most recently joined session
// that has not ended, or null.
func (s *AssignmentService) recomputeCurrentSession(tx *gorm.DB, juryID uint) error {
	var membership models.SessionJury
	err := tx.Joins("JOIN sessions ON sessions.id = session_juries.session_id").
		Where("session_juries.jury_id = ? AND sessions.ended_at IS NULL", juryID).
		Order("session_juries.joined_at DESC").
		First(&membership).Error

	var current *uint
	if err == nil {
		current = &membership.SessionID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return tx.Model(&models.Jury{}).Where("id = ?", juryID).
		Update("current_session_id", current).Error
}

// DistributeTeams assigns teams to juries round-robin over the given
// orderings. It is deterministic: callers wanting a random distribution
// shuffle the inputs first (see ShuffleTeams).
func (s *AssignmentService) DistributeTeams(teamIDs, juryIDs []uint) (map[uint]uint, error) {
	if len(juryIDs) == 0 && len(teamIDs) > 0 {
		return nil, fmt.Errorf("%w: no juries to distribute %d teams to", ErrValidation, len(teamIDs))
	}

	assignments := make(map[uint]uint, len(teamIDs))
	for i, teamID := range teamIDs {
		assignments[teamID] = juryIDs[i%len(juryIDs)]
	}
	return assignments, nil
}

// ShuffleTeams returns a random permutation of the given team ids, leaving
// the input untouched.
func (s *AssignmentService) ShuffleTeams(teamIDs []uint) []uint {
	shuffled := make([]uint, len(teamIDs))
	copy(shuffled, teamIDs)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

type TeamAssignment struct {
	TeamID uint `json:"team_id" binding:"required"`
	JuryID uint `json:"jury_id" binding:"required"`
}

// ReassignTeams applies a batch of single-team reassignments. Each pair is
// validated, and the whole batch is written in one transaction.
func (s *AssignmentService) ReassignTeams(assignments []TeamAssignment) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, a := range assignments {
			var team models.Team
			if err := tx.First(&team, a.TeamID).Error; err != nil {
				return fmt.Errorf("%w: team %d", ErrNotFound, a.TeamID)
			}
			var jury models.Jury
			if err := tx.First(&jury, a.JuryID).Error; err != nil {
				return fmt.Errorf("%w: jury %d", ErrNotFound, a.JuryID)
			}
			if err := tx.Model(&models.Team{}).Where("id = ?", a.TeamID).
				Update("jury_id", a.JuryID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SessionJuries lists the juries currently assigned to a session.
func (s *AssignmentService) SessionJuries(sessionID uint) ([]models.Jury, error) {
	var session models.Session
	if err := s.db.First(&session, sessionID).Error; err != nil {
		return nil, fmt.Errorf("%w: session %d", ErrNotFound, sessionID)
	}

	var juries []models.Jury
	err := s.db.Joins("JOIN session_juries ON session_juries.jury_id = juries.id").
		Where("session_juries.session_id = ?", sessionID).
		Order("juries.name ASC").
		Find(&juries).Error
	return juries, err
}
