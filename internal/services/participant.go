package services

import (
	"errors"
	"fmt"

	"evalease-backend/internal/models"

	"gorm.io/gorm"
)

type ParticipantService struct {
	db *gorm.DB
}

func NewParticipantService(db *gorm.DB) *ParticipantService {
	return &ParticipantService{db: db}
}

func (s *ParticipantService) CreateParticipant(name, email, institution, phone string) (*models.Participant, error) {
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: participant name and email required", ErrValidation)
	}

	participant := models.Participant{
		Name:        name,
		Email:       email,
		Institution: institution,
		Phone:       phone,
	}
	if err := s.db.Create(&participant).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: email %s already registered", ErrValidation, email)
		}
		return nil, err
	}
	return &participant, nil
}

func (s *ParticipantService) GetParticipant(participantID uint) (*models.Participant, error) {
	var participant models.Participant
	if err := s.db.First(&participant, participantID).Error; err != nil {
		return nil, fmt.Errorf("%w: participant %d", ErrNotFound, participantID)
	}
	return &participant, nil
}

func (s *ParticipantService) ListParticipants() ([]models.Participant, error) {
	var participants []models.Participant
	err := s.db.Order("name ASC").Find(&participants).Error
	return participants, err
}

func (s *ParticipantService) UpdateParticipant(participantID uint, name, email, institution, phone string) (*models.Participant, error) {
	participant, err := s.GetParticipant(participantID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if name != "" {
		updates["name"] = name
	}
	if email != "" {
		updates["email"] = email
	}
	if institution != "" {
		updates["institution"] = institution
	}
	if phone != "" {
		updates["phone"] = phone
	}
	if len(updates) == 0 {
		return participant, nil
	}

	if err := s.db.Model(participant).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: email %s already registered", ErrValidation, email)
		}
		return nil, err
	}
	return s.GetParticipant(participantID)
}

// DeleteParticipant removes a participant. Team leaders cannot be deleted
// while their team exists.
func (s *ParticipantService) DeleteParticipant(participantID uint) error {
	participant, err := s.GetParticipant(participantID)
	if err != nil {
		return err
	}

	var led int64
	if err := s.db.Model(&models.Team{}).Where("leader_id = ?", participantID).
		Count(&led).Error; err != nil {
		return err
	}
	if led > 0 {
		return fmt.Errorf("%w: participant %d leads a team", ErrValidation, participantID)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("participant_id = ?", participantID).
			Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(participant).Error
	})
}
