package services

import (
	"errors"
	"fmt"

	"evalease-backend/internal/models"

	"gorm.io/gorm"
)

// BulkLockSummary reports the outcome of a bulk lock. Per-row failures are
// collected rather than aborting the batch: already committed locks stay
// committed.
type BulkLockSummary struct {
	LockedCount int      `json:"locked_count"`
	FailedCount int      `json:"failed_count"`
	Failures    []string `json:"failures,omitempty"`
}

func (s *BulkLockSummary) fail(format string, args ...interface{}) {
	s.FailedCount++
	s.Failures = append(s.Failures, fmt.Sprintf(format, args...))
}

// BulkLockService implements the two session-boundary lock operations. Both
// are idempotent and only ever move marks toward locked.
type BulkLockService struct {
	db *gorm.DB
}

func NewBulkLockService(db *gorm.DB) *BulkLockService {
	return &BulkLockService{db: db}
}

// LockSessionMarks locks every existing mark for the session, regardless of
// jury. It never creates marks: unmarked (team, jury) pairs stay absent.
// Row failures go into the summary so the session-end flow can proceed.
func (s *BulkLockService) LockSessionMarks(sessionID uint) (*BulkLockSummary, error) {
	var session models.Session
	if err := s.db.First(&session, sessionID).Error; err != nil {
		return nil, fmt.Errorf("%w: session %d", ErrNotFound, sessionID)
	}

	var marks []models.Mark
	if err := s.db.Where("session_id = ?", sessionID).Find(&marks).Error; err != nil {
		return nil, err
	}

	summary := &BulkLockSummary{}
	for _, mark := range marks {
		if mark.Locked {
			summary.LockedCount++
			continue
		}
		err := s.db.Model(&models.Mark{}).Where("id = ?", mark.ID).
			Update("locked", true).Error
		if err != nil {
			summary.fail("mark %d: %v", mark.ID, err)
			continue
		}
		summary.LockedCount++
	}
	return summary, nil
}

// LockJuryMarks is the jury-side "submit all" operation for one session. For
// each team without a mark from this jury it synthesizes a zero-score mark,
// already locked; unlocked marks are locked with their scores preserved;
// locked marks are left alone. Irreversible: unevaluated teams end up with
// zeros. Team ids that do not resolve are reported as failures and never get
// a mark.
func (s *BulkLockService) LockJuryMarks(juryID, sessionID uint, teamIDs []uint) (*BulkLockSummary, error) {
	var jury models.Jury
	if err := s.db.First(&jury, juryID).Error; err != nil {
		return nil, fmt.Errorf("%w: jury %d", ErrNotFound, juryID)
	}
	var session models.Session
	if err := s.db.First(&session, sessionID).Error; err != nil {
		return nil, fmt.Errorf("%w: session %d", ErrNotFound, sessionID)
	}

	summary := &BulkLockSummary{}
	for _, teamID := range teamIDs {
		var team models.Team
		if err := s.db.First(&team, teamID).Error; err != nil {
			summary.fail("team %d: %v", teamID, ErrRelation)
			continue
		}
		if err := s.lockOrCreate(juryID, sessionID, teamID); err != nil {
			summary.fail("team %d: %v", teamID, err)
			continue
		}
		summary.LockedCount++
	}
	return summary, nil
}

func (s *BulkLockService) lockOrCreate(juryID, sessionID, teamID uint) error {
	var mark models.Mark
	err := s.db.Where("team_id = ? AND jury_id = ? AND session_id = ?",
		teamID, juryID, sessionID).First(&mark).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		zero := models.Mark{
			TeamID:    teamID,
			JuryID:    juryID,
			SessionID: sessionID,
			Submitted: true,
			Locked:    true,
		}
		err = s.db.Create(&zero).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent submit; lock what was inserted.
			return s.db.Model(&models.Mark{}).
				Where("team_id = ? AND jury_id = ? AND session_id = ?", teamID, juryID, sessionID).
				Update("locked", true).Error
		}
		return err
	}
	if err != nil {
		return err
	}

	if mark.Locked {
		return nil
	}
	return s.db.Model(&models.Mark{}).Where("id = ?", mark.ID).
		Update("locked", true).Error
}
