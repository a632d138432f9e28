package services

import (
	"time"

	"evalease-backend/internal/models"

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

const (
	lookupKeyJuries = "juries"
	lookupKeyTeams  = "teams"
)

// Option is a dropdown entry for the admin UI.
type Option struct {
	ID    uint   `json:"id"`
	Label string `json:"label"`
}

// LookupService serves the jury and team dropdown lists behind a TTL cache.
// The cache is owned by the service, not package state, and is invalidated
// whenever a write handler touches juries or teams.
type LookupService struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewLookupService(db *gorm.DB, ttl time.Duration) *LookupService {
	return &LookupService{
		db:    db,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (s *LookupService) JuryOptions() ([]Option, error) {
	if cached, ok := s.cache.Get(lookupKeyJuries); ok {
		return cached.([]Option), nil
	}

	var juries []models.Jury
	if err := s.db.Order("name ASC").Find(&juries).Error; err != nil {
		return nil, err
	}

	options := make([]Option, len(juries))
	for i, j := range juries {
		options[i] = Option{ID: j.ID, Label: j.Name}
	}
	s.cache.Set(lookupKeyJuries, options, cache.DefaultExpiration)
	return options, nil
}

func (s *LookupService) TeamOptions() ([]Option, error) {
	if cached, ok := s.cache.Get(lookupKeyTeams); ok {
		return cached.([]Option), nil
	}

	var teams []models.Team
	if err := s.db.Order("name ASC").Find(&teams).Error; err != nil {
		return nil, err
	}

	options := make([]Option, len(teams))
	for i, t := range teams {
		options[i] = Option{ID: t.ID, Label: t.Name}
	}
	s.cache.Set(lookupKeyTeams, options, cache.DefaultExpiration)
	return options, nil
}

func (s *LookupService) Invalidate() {
	s.cache.Delete(lookupKeyJuries)
	s.cache.Delete(lookupKeyTeams)
}
