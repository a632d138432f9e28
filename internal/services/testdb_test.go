package services

import (
	"testing"

	"evalease-backend/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory store per test. A single connection is
// forced so every query sees the same sqlite database, and TranslateError is
// on so the unique-index guard behaves as it does against postgres.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Admin{},
		&models.Participant{},
		&models.Jury{},
		&models.Session{},
		&models.SessionJury{},
		&models.Team{},
		&models.TeamMember{},
		&models.Mark{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func createParticipant(t *testing.T, db *gorm.DB, name string) *models.Participant {
	t.Helper()
	p := models.Participant{Name: name, Email: name + "@example.edu"}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("create participant %s: %v", name, err)
	}
	return &p
}

func createJury(t *testing.T, db *gorm.DB, name string) *models.Jury {
	t.Helper()
	j := models.Jury{Name: name, Email: name + "@example.edu", AccessToken: "token-" + name}
	if err := db.Create(&j).Error; err != nil {
		t.Fatalf("create jury %s: %v", name, err)
	}
	return &j
}

func createTeam(t *testing.T, db *gorm.DB, name string) *models.Team {
	t.Helper()
	leader := createParticipant(t, db, "leader-of-"+name)
	team := models.Team{Name: name, LeaderID: leader.ID}
	if err := db.Create(&team).Error; err != nil {
		t.Fatalf("create team %s: %v", name, err)
	}
	return &team
}

func createSession(t *testing.T, db *gorm.DB, name string) *models.Session {
	t.Helper()
	s := models.Session{Name: name}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("create session %s: %v", name, err)
	}
	return &s
}
