package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"evalease-backend/internal/models"

	"github.com/looplab/fsm"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	eventStart = "start"
	eventEnd   = "end"
)

// newSessionFSM builds the pending -> active -> ended machine seeded with the
// session's current state. Invalid events are rejected by the machine and
// surface as ErrInvalidState.
func newSessionFSM(state string) *fsm.FSM {
	return fsm.NewFSM(
		state,
		fsm.Events{
			{Name: eventStart, Src: []string{models.SessionStatePending}, Dst: models.SessionStateActive},
			{Name: eventEnd, Src: []string{models.SessionStateActive}, Dst: models.SessionStateEnded},
		},
		fsm.Callbacks{},
	)
}

// DraftConfig is the autosaved configuration of a draft session: the name,
// the jury selection and the team->jury assignment map. Persisted as JSON on
// the session row, last write wins.
type DraftConfig struct {
	Name            string        `json:"name,omitempty"`
	JuryIDs         []uint        `json:"jury_ids,omitempty"`
	TeamAssignments map[uint]uint `json:"team_assignments,omitempty"`
}

// LifecycleService drives sessions through pending, active and ended, and
// runs the side effects at each boundary.
type LifecycleService struct {
	db         *gorm.DB
	assignment *AssignmentService
	bulkLock   *BulkLockService
}

func NewLifecycleService(db *gorm.DB, assignment *AssignmentService, bulkLock *BulkLockService) *LifecycleService {
	return &LifecycleService{db: db, assignment: assignment, bulkLock: bulkLock}
}

// CreateSession creates a session, either as an editable draft or published
// immediately.
func (s *LifecycleService) CreateSession(name string, draft bool) (*models.Session, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: session name required", ErrValidation)
	}

	session := models.Session{Name: name, Draft: draft}
	if !draft {
		now := time.Now()
		session.PublishedAt = &now
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *LifecycleService) GetSession(sessionID uint) (*models.Session, error) {
	var session models.Session
	if err := s.db.Preload("Memberships").First(&session, sessionID).Error; err != nil {
		return nil, fmt.Errorf("%w: session %d", ErrNotFound, sessionID)
	}
	return &session, nil
}

func (s *LifecycleService) ListSessions() ([]models.Session, error) {
	var sessions []models.Session
	err := s.db.Order("created_at DESC").Find(&sessions).Error
	return sessions, err
}

// Start moves a pending session to active.
func (s *LifecycleService) Start(sessionID uint) (*models.Session, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Draft {
		return nil, fmt.Errorf("%w: session %d is an unpublished draft", ErrInvalidState, sessionID)
	}

	machine := newSessionFSM(session.State())
	if err := machine.Event(context.Background(), eventStart); err != nil {
		return nil, fmt.Errorf("%w: cannot start session in state %q", ErrInvalidState, session.State())
	}

	now := time.Now()
	if err := s.db.Model(session).Update("started_at", now).Error; err != nil {
		return nil, err
	}
	session.StartedAt = &now
	return session, nil
}

// End moves an active session to ended. Order of side effects: all marks for
// the session are bulk-locked first, then the end timestamp is set, then
// every jury membership is removed so the juries are free for future
// sessions. Lock failures never block ending; they come back in the summary.
func (s *LifecycleService) End(sessionID uint) (*models.Session, *BulkLockSummary, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, nil, err
	}

	machine := newSessionFSM(session.State())
	if err := machine.Event(context.Background(), eventEnd); err != nil {
		return nil, nil, fmt.Errorf("%w: cannot end session in state %q", ErrInvalidState, session.State())
	}

	summary, err := s.bulkLock.LockSessionMarks(sessionID)
	if err != nil {
		// Best effort: an ended session must not stay perpetually lockable.
		log.Printf("lifecycle: bulk lock for session %d failed: %v", sessionID, err)
		summary = &BulkLockSummary{FailedCount: 1, Failures: []string{err.Error()}}
	}
	if summary.FailedCount > 0 {
		log.Printf("lifecycle: session %d ended with %d mark lock failures", sessionID, summary.FailedCount)
	}

	now := time.Now()
	if err := s.db.Model(session).Update("ended_at", now).Error; err != nil {
		return nil, summary, err
	}
	session.EndedAt = &now

	var memberships []models.SessionJury
	if err := s.db.Where("session_id = ?", sessionID).Find(&memberships).Error; err != nil {
		return nil, summary, err
	}
	if err := s.db.Where("session_id = ?", sessionID).
		Delete(&models.SessionJury{}).Error; err != nil {
		return nil, summary, err
	}
	for _, m := range memberships {
		if err := s.assignment.recomputeCurrentSession(s.db, m.JuryID); err != nil {
			return nil, summary, err
		}
	}

	return session, summary, nil
}

// SaveDraft upserts a draft session's configuration. Keyed by the draft id;
// the latest snapshot wins.
func (s *LifecycleService) SaveDraft(draftID uint, cfg DraftConfig) (*models.Session, error) {
	session, err := s.GetSession(draftID)
	if err != nil {
		return nil, err
	}
	if !session.Draft {
		return nil, fmt.Errorf("%w: session %d is not a draft", ErrInvalidState, draftID)
	}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	updates := map[string]interface{}{"draft_config": datatypes.JSON(raw)}
	if cfg.Name != "" {
		updates["name"] = cfg.Name
	}
	if err := s.db.Model(session).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetSession(draftID)
}

// Publish converts a draft into a live session, applying the saved draft
// configuration atomically with the flag flip.
func (s *LifecycleService) Publish(draftID uint) (*models.Session, error) {
	session, err := s.GetSession(draftID)
	if err != nil {
		return nil, err
	}
	if !session.Draft {
		return nil, fmt.Errorf("%w: session %d is already published", ErrInvalidState, draftID)
	}

	var cfg DraftConfig
	if len(session.DraftConfig) > 0 {
		if err := json.Unmarshal(session.DraftConfig, &cfg); err != nil {
			return nil, fmt.Errorf("%w: corrupt draft config: %v", ErrValidation, err)
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, juryID := range cfg.JuryIDs {
			var jury models.Jury
			if err := tx.First(&jury, juryID).Error; err != nil {
				return fmt.Errorf("%w: jury %d", ErrNotFound, juryID)
			}
			membership := models.SessionJury{SessionID: draftID, JuryID: juryID}
			if err := tx.Where("session_id = ? AND jury_id = ?", draftID, juryID).
				Attrs(models.SessionJury{JoinedAt: time.Now()}).
				FirstOrCreate(&membership).Error; err != nil {
				return err
			}
			if err := s.assignment.recomputeCurrentSession(tx, juryID); err != nil {
				return err
			}
		}

		for teamID, juryID := range cfg.TeamAssignments {
			var team models.Team
			if err := tx.First(&team, teamID).Error; err != nil {
				return fmt.Errorf("%w: team %d", ErrNotFound, teamID)
			}
			if err := tx.Model(&models.Team{}).Where("id = ?", teamID).
				Update("jury_id", juryID).Error; err != nil {
				return err
			}
		}

		now := time.Now()
		return tx.Model(&models.Session{}).Where("id = ?", draftID).
			Updates(map[string]interface{}{
				"draft":        false,
				"published_at": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetSession(draftID)
}

// DeleteSession removes a session together with its marks, memberships and
// draft state. Marks referencing the session never outlive it.
func (s *LifecycleService) DeleteSession(sessionID uint) error {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return err
	}

	var memberships []models.SessionJury
	if err := s.db.Where("session_id = ?", sessionID).Find(&memberships).Error; err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&models.Mark{}).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", sessionID).Delete(&models.SessionJury{}).Error; err != nil {
			return err
		}
		return tx.Delete(session).Error
	})
	if err != nil {
		return err
	}

	for _, m := range memberships {
		if err := s.assignment.recomputeCurrentSession(s.db, m.JuryID); err != nil {
			return err
		}
	}
	return nil
}

// SessionView is the presentation shape of a session, with the derived
// lifecycle state spelled out.
type SessionView struct {
	models.Session
	State string `json:"state"`
}

func NewSessionView(session *models.Session) SessionView {
	return SessionView{Session: *session, State: session.State()}
}
