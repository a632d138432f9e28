package services

import (
	"testing"
	"time"
)

func TestLookupCachesUntilInvalidated(t *testing.T) {
	db := newTestDB(t)
	svc := NewLookupService(db, time.Minute)

	createJury(t, db, "judge-a")

	options, err := svc.JuryOptions()
	if err != nil {
		t.Fatalf("JuryOptions: %v", err)
	}
	if len(options) != 1 {
		t.Fatalf("got %d options, want 1", len(options))
	}

	// Within the TTL the cached list is served even after a write.
	createJury(t, db, "judge-b")
	options, _ = svc.JuryOptions()
	if len(options) != 1 {
		t.Errorf("cache bypassed: got %d options", len(options))
	}

	svc.Invalidate()
	options, _ = svc.JuryOptions()
	if len(options) != 2 {
		t.Errorf("after invalidate: got %d options, want 2", len(options))
	}
}

func TestLookupTeamOptions(t *testing.T) {
	db := newTestDB(t)
	svc := NewLookupService(db, time.Minute)

	team := createTeam(t, db, "alpha")

	options, err := svc.TeamOptions()
	if err != nil {
		t.Fatalf("TeamOptions: %v", err)
	}
	if len(options) != 1 || options[0].ID != team.ID || options[0].Label != "alpha" {
		t.Errorf("options %+v", options)
	}
}
