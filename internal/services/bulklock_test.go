package services

import (
	"errors"
	"testing"

	"evalease-backend/internal/models"
)

func TestLockSessionMarksLocksExistingCreatesNone(t *testing.T) {
	db := newTestDB(t)
	svc := NewBulkLockService(db)
	marking := NewMarkingService(db, DefaultScoreBounds(10))

	session := createSession(t, db, "round-1")
	juryA := createJury(t, db, "judge-a")
	juryB := createJury(t, db, "judge-b")
	teamA := createTeam(t, db, "alpha")
	teamB := createTeam(t, db, "beta")

	if _, err := marking.SubmitMark(teamA.ID, juryA.ID, session.ID, Scores{1, 1, 1, 1}); err != nil {
		t.Fatalf("SubmitMark: %v", err)
	}
	if _, err := marking.SubmitMark(teamB.ID, juryB.ID, session.ID, Scores{2, 2, 2, 2}); err != nil {
		t.Fatalf("SubmitMark: %v", err)
	}

	summary, err := svc.LockSessionMarks(session.ID)
	if err != nil {
		t.Fatalf("LockSessionMarks: %v", err)
	}
	if summary.LockedCount != 2 || summary.FailedCount != 0 {
		t.Errorf("summary %+v, want 2 locked", summary)
	}

	var unlocked int64
	db.Model(&models.Mark{}).Where("session_id = ? AND locked = ?", session.ID, false).Count(&unlocked)
	if unlocked != 0 {
		t.Errorf("%d marks still unlocked", unlocked)
	}

	// teamA was never marked by juryB: no mark may appear for that pair.
	var total int64
	db.Model(&models.Mark{}).Where("session_id = ?", session.ID).Count(&total)
	if total != 2 {
		t.Errorf("bulk lock created marks: %d total, want 2", total)
	}
}

func TestLockSessionMarksIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewBulkLockService(db)
	marking := NewMarkingService(db, DefaultScoreBounds(10))

	session := createSession(t, db, "round-1")
	jury := createJury(t, db, "judge-a")
	team := createTeam(t, db, "alpha")

	if _, err := marking.SubmitMark(team.ID, jury.ID, session.ID, Scores{3, 3, 3, 3}); err != nil {
		t.Fatalf("SubmitMark: %v", err)
	}

	for i := 0; i < 2; i++ {
		summary, err := svc.LockSessionMarks(session.ID)
		if err != nil {
			t.Fatalf("LockSessionMarks round %d: %v", i, err)
		}
		if summary.LockedCount != 1 || summary.FailedCount != 0 {
			t.Errorf("round %d summary %+v", i, summary)
		}
	}

	var fresh models.Mark
	db.Where("session_id = ?", session.ID).First(&fresh)
	if fresh.Innovation != 3 {
		t.Error("scores changed during bulk lock")
	}
}

func TestLockSessionMarksUnknownSession(t *testing.T) {
	db := newTestDB(t)
	svc := NewBulkLockService(db)

	if _, err := svc.LockSessionMarks(999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestLockJuryMarksZeroFill(t *testing.T) {
	db := newTestDB(t)
	svc := NewBulkLockService(db)
	marking := NewMarkingService(db, DefaultScoreBounds(10))

	session := createSession(t, db, "round-1")
	jury := createJury(t, db, "judge-a")
	marked := createTeam(t, db, "marked")
	lockedTeam := createTeam(t, db, "locked")
	unmarked := createTeam(t, db, "unmarked")

	if _, err := marking.SubmitMark(marked.ID, jury.ID, session.ID, Scores{7, 7, 7, 7}); err != nil {
		t.Fatalf("SubmitMark: %v", err)
	}
	lockedMark, err := marking.SubmitMark(lockedTeam.ID, jury.ID, session.ID, Scores{4, 4, 4, 4})
	if err != nil {
		t.Fatalf("SubmitMark: %v", err)
	}
	if _, err := marking.LockMark(lockedMark.ID); err != nil {
		t.Fatalf("LockMark: %v", err)
	}

	teamIDs := []uint{marked.ID, lockedTeam.ID, unmarked.ID}
	summary, err := svc.LockJuryMarks(jury.ID, session.ID, teamIDs)
	if err != nil {
		t.Fatalf("LockJuryMarks: %v", err)
	}
	if summary.LockedCount != 3 || summary.FailedCount != 0 {
		t.Errorf("summary %+v, want 3 locked", summary)
	}

	// Every team now has exactly one locked mark from this jury.
	for _, teamID := range teamIDs {
		var marks []models.Mark
		db.Where("team_id = ? AND jury_id = ? AND session_id = ?", teamID, jury.ID, session.ID).Find(&marks)
		if len(marks) != 1 {
			t.Fatalf("team %d has %d marks, want 1", teamID, len(marks))
		}
		if !marks[0].Locked || !marks[0].Submitted {
			t.Errorf("team %d mark not submitted+locked: %+v", teamID, marks[0])
		}
	}

	var zeroFilled models.Mark
	db.Where("team_id = ?", unmarked.ID).First(&zeroFilled)
	if zeroFilled.Innovation != 0 || zeroFilled.Execution != 0 ||
		zeroFilled.Presentation != 0 || zeroFilled.Impact != 0 {
		t.Errorf("synthesized mark not zero-filled: %+v", zeroFilled)
	}

	var preserved models.Mark
	db.Where("team_id = ?", marked.ID).First(&preserved)
	if preserved.Innovation != 7 {
		t.Errorf("submitted scores not preserved on lock: %+v", preserved)
	}

	var untouched models.Mark
	db.Where("team_id = ?", lockedTeam.ID).First(&untouched)
	if untouched.Innovation != 4 {
		t.Errorf("already locked mark modified: %+v", untouched)
	}
}

func TestLockJuryMarksUnknownTeamFailsForward(t *testing.T) {
	db := newTestDB(t)
	svc := NewBulkLockService(db)

	session := createSession(t, db, "round-1")
	jury := createJury(t, db, "judge-a")
	team := createTeam(t, db, "alpha")

	summary, err := svc.LockJuryMarks(jury.ID, session.ID, []uint{team.ID, 424242})
	if err != nil {
		t.Fatalf("LockJuryMarks: %v", err)
	}
	if summary.LockedCount != 1 || summary.FailedCount != 1 {
		t.Errorf("summary %+v, want 1 locked 1 failed", summary)
	}
	if len(summary.Failures) != 1 {
		t.Errorf("failures %v, want the unknown team reported", summary.Failures)
	}

	// The known team got its mark; the unknown one must not.
	var known, unknown int64
	db.Model(&models.Mark{}).Where("team_id = ?", team.ID).Count(&known)
	db.Model(&models.Mark{}).Where("team_id = ?", 424242).Count(&unknown)
	if known != 1 {
		t.Errorf("got %d marks for the known team, want 1", known)
	}
	if unknown != 0 {
		t.Errorf("mark synthesized for a nonexistent team")
	}
}

func TestLockJuryMarksIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewBulkLockService(db)

	session := createSession(t, db, "round-1")
	jury := createJury(t, db, "judge-a")
	team := createTeam(t, db, "alpha")

	for i := 0; i < 2; i++ {
		summary, err := svc.LockJuryMarks(jury.ID, session.ID, []uint{team.ID})
		if err != nil {
			t.Fatalf("LockJuryMarks round %d: %v", i, err)
		}
		if summary.LockedCount != 1 {
			t.Errorf("round %d summary %+v", i, summary)
		}
	}

	var count int64
	db.Model(&models.Mark{}).Where("team_id = ?", team.ID).Count(&count)
	if count != 1 {
		t.Errorf("got %d marks after repeated submit-all, want 1", count)
	}
}

func TestLockJuryMarksUnknownRefs(t *testing.T) {
	db := newTestDB(t)
	svc := NewBulkLockService(db)

	session := createSession(t, db, "round-1")
	jury := createJury(t, db, "judge-a")

	if _, err := svc.LockJuryMarks(999, session.ID, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown jury: got %v, want ErrNotFound", err)
	}
	if _, err := svc.LockJuryMarks(jury.ID, 999, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown session: got %v, want ErrNotFound", err)
	}
}
