package services

import (
	"encoding/json"
	"errors"
	"testing"

	"evalease-backend/internal/models"

	"gorm.io/gorm"
)

func newLifecycle(db *gorm.DB) (*LifecycleService, *AssignmentService) {
	assignment := NewAssignmentService(db)
	return NewLifecycleService(db, assignment, NewBulkLockService(db)), assignment
}

func TestSessionStateDerivation(t *testing.T) {
	db := newTestDB(t)
	lifecycle, _ := newLifecycle(db)

	session, err := lifecycle.CreateSession("round-1", false)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if got := session.State(); got != models.SessionStatePending {
		t.Errorf("new session state %q, want pending", got)
	}

	session, err = lifecycle.Start(session.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := session.State(); got != models.SessionStateActive {
		t.Errorf("started session state %q, want active", got)
	}

	session, _, err = lifecycle.End(session.ID)
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if got := session.State(); got != models.SessionStateEnded {
		t.Errorf("ended session state %q, want ended", got)
	}
	if session.StartedAt == nil || session.EndedAt == nil {
		t.Error("timestamps missing after full lifecycle")
	}
}

func TestStartRejectsInvalidStates(t *testing.T) {
	db := newTestDB(t)
	lifecycle, _ := newLifecycle(db)

	session, _ := lifecycle.CreateSession("round-1", false)

	if _, err := lifecycle.Start(session.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := lifecycle.Start(session.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("restarting active session: got %v, want ErrInvalidState", err)
	}

	if _, _, err := lifecycle.End(session.ID); err != nil {
		t.Fatalf("End: %v", err)
	}
	if _, err := lifecycle.Start(session.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("restarting ended session: got %v, want ErrInvalidState", err)
	}

	draft, _ := lifecycle.CreateSession("draft-1", true)
	if _, err := lifecycle.Start(draft.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("starting a draft: got %v, want ErrInvalidState", err)
	}

	if _, err := lifecycle.Start(999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("starting unknown session: got %v, want ErrNotFound", err)
	}
}

func TestEndRejectsInvalidStates(t *testing.T) {
	db := newTestDB(t)
	lifecycle, _ := newLifecycle(db)

	session, _ := lifecycle.CreateSession("round-1", false)

	if _, _, err := lifecycle.End(session.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("ending pending session: got %v, want ErrInvalidState", err)
	}

	lifecycle.Start(session.ID)
	if _, _, err := lifecycle.End(session.ID); err != nil {
		t.Fatalf("End: %v", err)
	}
	if _, _, err := lifecycle.End(session.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("ending twice: got %v, want ErrInvalidState", err)
	}
}

func TestEndLocksMarksAndDetachesJuries(t *testing.T) {
	db := newTestDB(t)
	lifecycle, assignment := newLifecycle(db)
	marking := NewMarkingService(db, DefaultScoreBounds(10))

	session, _ := lifecycle.CreateSession("round-1", false)
	jury := createJury(t, db, "judge-a")
	team := createTeam(t, db, "alpha")

	if err := assignment.AssignJuryToSession(jury.ID, session.ID); err != nil {
		t.Fatalf("AssignJuryToSession: %v", err)
	}
	if _, err := lifecycle.Start(session.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	mark, err := marking.SubmitMark(team.ID, jury.ID, session.ID, Scores{2, 2, 2, 2})
	if err != nil {
		t.Fatalf("SubmitMark: %v", err)
	}

	_, summary, err := lifecycle.End(session.ID)
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if summary.LockedCount != 1 || summary.FailedCount != 0 {
		t.Errorf("summary %+v, want 1 locked 0 failed", summary)
	}

	var fresh models.Mark
	db.First(&fresh, mark.ID)
	if !fresh.Locked {
		t.Error("mark not locked after session end")
	}

	var memberships int64
	db.Model(&models.SessionJury{}).Where("session_id = ?", session.ID).Count(&memberships)
	if memberships != 0 {
		t.Errorf("%d memberships survive session end, want 0", memberships)
	}

	var freshJury models.Jury
	db.First(&freshJury, jury.ID)
	if freshJury.CurrentSessionID != nil {
		t.Errorf("jury still bound to session %d after end", *freshJury.CurrentSessionID)
	}

	// Locked marks reject updates regardless of how they were locked.
	if _, err := marking.UpdateMark(mark.ID, Scores{9, 9, 9, 9}); !errors.Is(err, ErrLocked) {
		t.Fatalf("got %v, want ErrLocked", err)
	}
}

func TestSaveDraftLastWriteWins(t *testing.T) {
	db := newTestDB(t)
	lifecycle, _ := newLifecycle(db)

	draft, _ := lifecycle.CreateSession("draft-1", true)
	jury := createJury(t, db, "judge-a")

	if _, err := lifecycle.SaveDraft(draft.ID, DraftConfig{Name: "first pass"}); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	saved, err := lifecycle.SaveDraft(draft.ID, DraftConfig{
		Name:    "final name",
		JuryIDs: []uint{jury.ID},
	})
	if err != nil {
		t.Fatalf("SaveDraft second: %v", err)
	}
	if saved.Name != "final name" {
		t.Errorf("name %q, want last write", saved.Name)
	}

	var cfg DraftConfig
	if err := json.Unmarshal(saved.DraftConfig, &cfg); err != nil {
		t.Fatalf("unmarshal draft config: %v", err)
	}
	if len(cfg.JuryIDs) != 1 || cfg.JuryIDs[0] != jury.ID {
		t.Errorf("draft config %+v, want jury %d", cfg, jury.ID)
	}

	published, _ := lifecycle.CreateSession("live", false)
	if _, err := lifecycle.SaveDraft(published.ID, DraftConfig{}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("saving draft on published session: got %v, want ErrInvalidState", err)
	}
}

func TestPublishAppliesDraftConfig(t *testing.T) {
	db := newTestDB(t)
	lifecycle, _ := newLifecycle(db)

	draft, _ := lifecycle.CreateSession("draft-1", true)
	jury := createJury(t, db, "judge-a")
	team := createTeam(t, db, "alpha")

	_, err := lifecycle.SaveDraft(draft.ID, DraftConfig{
		JuryIDs:         []uint{jury.ID},
		TeamAssignments: map[uint]uint{team.ID: jury.ID},
	})
	if err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}

	published, err := lifecycle.Publish(draft.ID)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if published.Draft || published.PublishedAt == nil {
		t.Errorf("session still a draft after publish: %+v", published)
	}

	var membership int64
	db.Model(&models.SessionJury{}).
		Where("session_id = ? AND jury_id = ?", draft.ID, jury.ID).
		Count(&membership)
	if membership != 1 {
		t.Error("jury membership not applied on publish")
	}

	var freshTeam models.Team
	db.First(&freshTeam, team.ID)
	if freshTeam.JuryID == nil || *freshTeam.JuryID != jury.ID {
		t.Errorf("team assignment not applied, got %v", freshTeam.JuryID)
	}

	if _, err := lifecycle.Publish(draft.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("publishing twice: got %v, want ErrInvalidState", err)
	}
}

func TestPublishRecomputesJuryProjection(t *testing.T) {
	db := newTestDB(t)
	lifecycle, assignment := newLifecycle(db)

	draft, _ := lifecycle.CreateSession("draft-1", true)
	jury := createJury(t, db, "judge-a")

	// The jury joins the draft first, then a second session. The projection
	// always follows the most recent non-ended membership, so publishing the
	// older draft must not steal it back.
	if err := assignment.AssignJuryToSession(jury.ID, draft.ID); err != nil {
		t.Fatalf("assign to draft: %v", err)
	}
	second := createSession(t, db, "round-2")
	if err := assignment.AssignJuryToSession(jury.ID, second.ID); err != nil {
		t.Fatalf("assign to second: %v", err)
	}

	if _, err := lifecycle.SaveDraft(draft.ID, DraftConfig{JuryIDs: []uint{jury.ID}}); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if _, err := lifecycle.Publish(draft.ID); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	var fresh models.Jury
	db.First(&fresh, jury.ID)
	if fresh.CurrentSessionID == nil || *fresh.CurrentSessionID != second.ID {
		t.Errorf("projection %v, want most recent membership %d", fresh.CurrentSessionID, second.ID)
	}
}

func TestPublishRollsBackOnBadConfig(t *testing.T) {
	db := newTestDB(t)
	lifecycle, _ := newLifecycle(db)

	draft, _ := lifecycle.CreateSession("draft-1", true)
	jury := createJury(t, db, "judge-a")

	_, err := lifecycle.SaveDraft(draft.ID, DraftConfig{
		JuryIDs:         []uint{jury.ID},
		TeamAssignments: map[uint]uint{999: jury.ID},
	})
	if err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}

	if _, err := lifecycle.Publish(draft.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}

	fresh, _ := lifecycle.GetSession(draft.ID)
	if !fresh.Draft {
		t.Error("draft flag flipped despite failed publish")
	}
	var membership int64
	db.Model(&models.SessionJury{}).Where("session_id = ?", draft.ID).Count(&membership)
	if membership != 0 {
		t.Error("memberships applied despite failed publish")
	}
}

func TestDeleteSessionCascades(t *testing.T) {
	db := newTestDB(t)
	lifecycle, assignment := newLifecycle(db)
	marking := NewMarkingService(db, DefaultScoreBounds(10))

	session, _ := lifecycle.CreateSession("round-1", false)
	jury := createJury(t, db, "judge-a")
	team := createTeam(t, db, "alpha")

	assignment.AssignJuryToSession(jury.ID, session.ID)
	if _, err := marking.SubmitMark(team.ID, jury.ID, session.ID, Scores{1, 1, 1, 1}); err != nil {
		t.Fatalf("SubmitMark: %v", err)
	}

	if err := lifecycle.DeleteSession(session.ID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}

	var marks, memberships, sessions int64
	db.Model(&models.Mark{}).Where("session_id = ?", session.ID).Count(&marks)
	db.Model(&models.SessionJury{}).Where("session_id = ?", session.ID).Count(&memberships)
	db.Model(&models.Session{}).Where("id = ?", session.ID).Count(&sessions)
	if marks != 0 || memberships != 0 || sessions != 0 {
		t.Errorf("cascade incomplete: %d marks, %d memberships, %d sessions", marks, memberships, sessions)
	}

	var freshJury models.Jury
	db.First(&freshJury, jury.ID)
	if freshJury.CurrentSessionID != nil {
		t.Error("jury projection still points at deleted session")
	}
}

// Full walkthrough: start, mark, duplicate rejected, end locks everything.
func TestSessionScenario(t *testing.T) {
	db := newTestDB(t)
	lifecycle, assignment := newLifecycle(db)
	marking := NewMarkingService(db, DefaultScoreBounds(10))

	session, _ := lifecycle.CreateSession("S1", false)
	jury := createJury(t, db, "jury-3")
	team := createTeam(t, db, "team-7")
	assignment.AssignJuryToSession(jury.ID, session.ID)

	if _, err := lifecycle.Start(session.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	mark, err := marking.SubmitMark(team.ID, jury.ID, session.ID, Scores{2, 2, 2, 2})
	if err != nil {
		t.Fatalf("SubmitMark: %v", err)
	}
	if mark.Locked {
		t.Error("fresh mark locked")
	}

	if _, err := marking.SubmitMark(team.ID, jury.ID, session.ID, Scores{2, 2, 2, 2}); !errors.Is(err, ErrDuplicateMark) {
		t.Fatalf("duplicate submit: got %v, want ErrDuplicateMark", err)
	}

	ended, summary, err := lifecycle.End(session.ID)
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if ended.State() != models.SessionStateEnded || summary.LockedCount != 1 {
		t.Errorf("end state %q, locked %d", ended.State(), summary.LockedCount)
	}

	if _, err := marking.UpdateMark(mark.ID, Scores{3, 3, 3, 3}); !errors.Is(err, ErrLocked) {
		t.Fatalf("update after end: got %v, want ErrLocked", err)
	}
}
