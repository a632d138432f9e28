package services

import (
	"errors"
	"fmt"
	"time"

	"evalease-backend/internal/models"

	"gorm.io/gorm"
)

// TeamService manages teams and their member rosters. Invariants enforced
// here: the leader must exist, a participant leads at most one team, and a
// leader is never also a plain member of their own team.
type TeamService struct {
	db *gorm.DB
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{db: db}
}

func (s *TeamService) CreateTeam(name string, leaderID uint, venue string) (*models.Team, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: team name required", ErrValidation)
	}
	var leader models.Participant
	if err := s.db.First(&leader, leaderID).Error; err != nil {
		return nil, fmt.Errorf("%w: participant %d", ErrRelation, leaderID)
	}

	team := models.Team{Name: name, LeaderID: leaderID, Venue: venue}
	if err := s.db.Create(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: participant %d already leads a team", ErrValidation, leaderID)
		}
		return nil, err
	}
	return &team, nil
}

func (s *TeamService) GetTeam(teamID uint) (*models.Team, error) {
	var team models.Team
	err := s.db.Preload("Leader").
		Preload("Members.Participant").
		First(&team, teamID).Error
	if err != nil {
		return nil, fmt.Errorf("%w: team %d", ErrNotFound, teamID)
	}
	return &team, nil
}

func (s *TeamService) ListTeams() ([]models.Team, error) {
	var teams []models.Team
	err := s.db.Preload("Leader").Order("name ASC").Find(&teams).Error
	return teams, err
}

// TeamsForJury lists the teams currently assigned to a jury member.
func (s *TeamService) TeamsForJury(juryID uint) ([]models.Team, error) {
	var teams []models.Team
	err := s.db.Where("jury_id = ?", juryID).
		Preload("Leader").
		Order("name ASC").
		Find(&teams).Error
	return teams, err
}

func (s *TeamService) UpdateTeam(teamID uint, name, venue string) (*models.Team, error) {
	team, err := s.GetTeam(teamID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if name != "" {
		updates["name"] = name
	}
	if venue != "" {
		updates["venue"] = venue
	}
	if len(updates) > 0 {
		if err := s.db.Model(team).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetTeam(teamID)
}

func (s *TeamService) DeleteTeam(teamID uint) error {
	team, err := s.GetTeam(teamID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", teamID).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", teamID).Delete(&models.Mark{}).Error; err != nil {
			return err
		}
		return tx.Delete(team).Error
	})
}

// AddMember puts a participant on a team's roster. Adding an existing member
// is a no-op; adding the team's own leader is rejected.
func (s *TeamService) AddMember(teamID, participantID uint) (*models.TeamMember, error) {
	team, err := s.GetTeam(teamID)
	if err != nil {
		return nil, err
	}
	var participant models.Participant
	if err := s.db.First(&participant, participantID).Error; err != nil {
		return nil, fmt.Errorf("%w: participant %d", ErrRelation, participantID)
	}

	if team.LeaderID == participantID {
		return nil, fmt.Errorf("%w: participant %d already leads this team", ErrValidation, participantID)
	}

	member := models.TeamMember{TeamID: teamID, ParticipantID: participantID}
	err = s.db.Where("team_id = ? AND participant_id = ?", teamID, participantID).
		Attrs(models.TeamMember{JoinedAt: time.Now()}).
		FirstOrCreate(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *TeamService) RemoveMember(teamID, participantID uint) error {
	if _, err := s.GetTeam(teamID); err != nil {
		return err
	}
	return s.db.Where("team_id = ? AND participant_id = ?", teamID, participantID).
		Delete(&models.TeamMember{}).Error
}
