package services

import (
	"errors"
	"fmt"

	"evalease-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JuryService manages jury member records. Session membership is handled by
// the AssignmentService.
type JuryService struct {
	db *gorm.DB
}

func NewJuryService(db *gorm.DB) *JuryService {
	return &JuryService{db: db}
}

func (s *JuryService) CreateJury(name, email, phone string) (*models.Jury, error) {
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: jury name and email required", ErrValidation)
	}

	jury := models.Jury{
		Name:        name,
		Email:       email,
		Phone:       phone,
		AccessToken: uuid.NewString(),
	}
	if err := s.db.Create(&jury).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: email %s already registered", ErrValidation, email)
		}
		return nil, err
	}
	return &jury, nil
}

func (s *JuryService) GetJury(juryID uint) (*models.Jury, error) {
	var jury models.Jury
	if err := s.db.First(&jury, juryID).Error; err != nil {
		return nil, fmt.Errorf("%w: jury %d", ErrNotFound, juryID)
	}
	return &jury, nil
}

// GetJuryByToken resolves a jury submission link token.
func (s *JuryService) GetJuryByToken(token string) (*models.Jury, error) {
	var jury models.Jury
	if err := s.db.Where("access_token = ?", token).First(&jury).Error; err != nil {
		return nil, fmt.Errorf("%w: unknown access token", ErrNotFound)
	}
	return &jury, nil
}

func (s *JuryService) ListJuries() ([]models.Jury, error) {
	var juries []models.Jury
	err := s.db.Order("name ASC").Find(&juries).Error
	return juries, err
}

// FreeJuries lists juries with no active session, i.e. available for
// assignment.
func (s *JuryService) FreeJuries() ([]models.Jury, error) {
	var juries []models.Jury
	err := s.db.Where("current_session_id IS NULL").Order("name ASC").Find(&juries).Error
	return juries, err
}

func (s *JuryService) UpdateJury(juryID uint, name, email, phone string) (*models.Jury, error) {
	jury, err := s.GetJury(juryID)
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
	if phone != "" {
		updates["phone"] = phone
	}
	if len(updates) == 0 {
		return jury, nil
	}

	if err := s.db.Model(jury).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: email %s already registered", ErrValidation, email)
		}
		return nil, err
	}
	return s.GetJury(juryID)
}

// DeleteJury removes the jury and its session memberships. Marks keep their
// jury reference for the historical record.
func (s *JuryService) DeleteJury(juryID uint) error {
	jury, err := s.GetJury(juryID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("jury_id = ?", juryID).Delete(&models.SessionJury{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Team{}).Where("jury_id = ?", juryID).
			Update("jury_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(jury).Error
	})
}
