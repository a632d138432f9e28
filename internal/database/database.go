package database

import (
	"fmt"
	"log"

	"evalease-backend/internal/config"
	"evalease-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	// TranslateError turns unique-index violations into gorm.ErrDuplicatedKey,
	// which the marking engine relies on as the duplicate-submission guard.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	log.Println("database connected")
	return db
}

func AutoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
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
		log.Fatalf("migration failed: %v", err)
	}
}
