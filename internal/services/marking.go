package services

import (
	"errors"
	"fmt"

	"evalease-backend/internal/models"

	"gorm.io/gorm"
)

// Scores carries the four rubric dimensions of a mark. Each value is either
// models.ScoreUnset or within [0, bound] for its dimension.
type Scores struct {
	Innovation   int `json:"innovation"`
	Execution    int `json:"execution"`
	Presentation int `json:"presentation"`
	Impact       int `json:"impact"`
}

// ScoreBounds holds the per-dimension ceilings. The rubric has shipped in a
// 0-10 and a 0-25 variant, so the bounds are injected rather than fixed.
type ScoreBounds struct {
	Innovation   int
	Execution    int
	Presentation int
	Impact       int
}

func DefaultScoreBounds(max int) ScoreBounds {
	return ScoreBounds{Innovation: max, Execution: max, Presentation: max, Impact: max}
}

// MarkingService validates and stores per-team scores submitted by juries.
type MarkingService struct {
	db     *gorm.DB
	bounds ScoreBounds
}

func NewMarkingService(db *gorm.DB, bounds ScoreBounds) *MarkingService {
	return &MarkingService{db: db, bounds: bounds}
}

func (s *MarkingService) validateScores(scores Scores) error {
	checks := []struct {
		name  string
		value int
		bound int
	}{
		{"innovation", scores.Innovation, s.bounds.Innovation},
		{"execution", scores.Execution, s.bounds.Execution},
		{"presentation", scores.Presentation, s.bounds.Presentation},
		{"impact", scores.Impact, s.bounds.Impact},
	}
	for _, c := range checks {
		if c.value == models.ScoreUnset {
			continue
		}
		if c.value < 0 || c.value > c.bound {
			return fmt.Errorf("%w: %s score %d out of range 0-%d", ErrValidation, c.name, c.value, c.bound)
		}
	}
	return nil
}

// SubmitMark creates a new mark for the (team, jury, session) triple and
// frees the team from its current jury assignment. The duplicate pre-check
// is an optimization; the unique index on marks is the real guard.
func (s *MarkingService) SubmitMark(teamID, juryID, sessionID uint, scores Scores) (*models.Mark, error) {
	if err := s.validateScores(scores); err != nil {
		return nil, err
	}

	var team models.Team
	if err := s.db.First(&team, teamID).Error; err != nil {
		return nil, fmt.Errorf("%w: team %d", ErrRelation, teamID)
	}
	var jury models.Jury
	if err := s.db.First(&jury, juryID).Error; err != nil {
		return nil, fmt.Errorf("%w: jury %d", ErrRelation, juryID)
	}
	var session models.Session
	if err := s.db.First(&session, sessionID).Error; err != nil {
		return nil, fmt.Errorf("%w: session %d", ErrRelation, sessionID)
	}

	var existing models.Mark
	if err := s.db.Where("team_id = ? AND jury_id = ? AND session_id = ?",
		teamID, juryID, sessionID).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("%w: team %d, jury %d, session %d", ErrDuplicateMark, teamID, juryID, sessionID)
	}

	mark := models.Mark{
		TeamID:       teamID,
		JuryID:       juryID,
		SessionID:    sessionID,
		Innovation:   scores.Innovation,
		Execution:    scores.Execution,
		Presentation: scores.Presentation,
		Impact:       scores.Impact,
		Submitted:    true,
		Locked:       false,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&mark).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: team %d, jury %d, session %d", ErrDuplicateMark, teamID, juryID, sessionID)
			}
			return err
		}
		// The team is now free for reassignment in a future cycle.
		return tx.Model(&models.Team{}).Where("id = ?", teamID).
			Update("jury_id", nil).Error
	})
	if err != nil {
		return nil, err
	}
	return &mark, nil
}

// UpdateMark overwrites the score fields of an unlocked mark. The locked
// check happens inside the atomic update, not just before it, so a racing
// lock always wins.
func (s *MarkingService) UpdateMark(markID uint, scores Scores) (*models.Mark, error) {
	if err := s.validateScores(scores); err != nil {
		return nil, err
	}

	res := s.db.Model(&models.Mark{}).
		Where("id = ? AND locked = ?", markID, false).
		Updates(map[string]interface{}{
			"innovation":   scores.Innovation,
			"execution":    scores.Execution,
			"presentation": scores.Presentation,
			"impact":       scores.Impact,
		})
	if res.Error != nil {
		return nil, res.Error
	}

	var mark models.Mark
	if err := s.db.First(&mark, markID).Error; err != nil {
		return nil, fmt.Errorf("%w: mark %d", ErrNotFound, markID)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: mark %d", ErrLocked, markID)
	}
	return &mark, nil
}

// LockMark sets the lock flag. Locking an already locked mark is a no-op.
func (s *MarkingService) LockMark(markID uint) (*models.Mark, error) {
	var mark models.Mark
	if err := s.db.First(&mark, markID).Error; err != nil {
		return nil, fmt.Errorf("%w: mark %d", ErrNotFound, markID)
	}

	if !mark.Locked {
		if err := s.db.Model(&mark).Update("locked", true).Error; err != nil {
			return nil, err
		}
		mark.Locked = true
	}
	return &mark, nil
}

// GetMark is a point lookup; callers use a nil mark to mean "not yet marked".
func (s *MarkingService) GetMark(teamID, juryID, sessionID uint) (*models.Mark, error) {
	var mark models.Mark
	err := s.db.Where("team_id = ? AND jury_id = ? AND session_id = ?",
		teamID, juryID, sessionID).First(&mark).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &mark, nil
}

// MarkByID fetches a mark by its identity.
func (s *MarkingService) MarkByID(markID uint) (*models.Mark, error) {
	var mark models.Mark
	if err := s.db.First(&mark, markID).Error; err != nil {
		return nil, fmt.Errorf("%w: mark %d", ErrNotFound, markID)
	}
	return &mark, nil
}

// SessionMarks lists every mark recorded for a session.
func (s *MarkingService) SessionMarks(sessionID uint) ([]models.Mark, error) {
	var marks []models.Mark
	err := s.db.Where("session_id = ?", sessionID).
		Order("team_id ASC, jury_id ASC").
		Find(&marks).Error
	return marks, err
}
