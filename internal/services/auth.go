package services

import (
	"errors"
	"fmt"
	"time"

	"evalease-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const adminTokenLifetime = 24 * time.Hour

type adminClaims struct {
	AdminID uint `json:"admin_id"`
	jwt.RegisteredClaims
}

// AuthService issues and verifies the bearer tokens used by the admin routes.
type AuthService struct {
	db        *gorm.DB
	jwtSecret []byte
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{db: db, jwtSecret: []byte(jwtSecret)}
}

// Register creates an admin account and returns a fresh token. The unique
// index on username is the duplicate guard.
func (s *AuthService) Register(username, password string) (string, error) {
	if username == "" || password == "" {
		return "", fmt.Errorf("%w: username and password required", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	admin := models.Admin{Username: username, PasswordHash: string(hash)}
	if err := s.db.Create(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", fmt.Errorf("%w: username %s already taken", ErrValidation, username)
		}
		return "", err
	}

	return s.GenerateToken(admin.ID)
}

func (s *AuthService) Login(username, password string) (string, error) {
	var admin models.Admin
	if err := s.db.Where("username = ?", username).First(&admin).Error; err != nil {
		return "", errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}
	return s.GenerateToken(admin.ID)
}

func (s *AuthService) GenerateToken(adminID uint) (string, error) {
	now := time.Now()
	claims := adminClaims{
		AdminID: adminID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(adminTokenLifetime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken returns the admin id carried by a valid token. Expiry is
// checked by the jwt parser via the registered claims.
func (s *AuthService) ValidateToken(tokenString string) (uint, error) {
	var claims adminClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, errors.New("invalid token")
	}
	if claims.AdminID == 0 {
		return 0, errors.New("token carries no admin id")
	}
	return claims.AdminID, nil
}
