package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"orderdesk/entity"
	"orderdesk/repository"
	"orderdesk/utils"

	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	DB     *gorm.DB
	Repo   *repository.StaffRepository
	Secret string
	TTL    time.Duration
}

func NewAuthService(db *gorm.DB, secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{DB: db, Repo: repository.NewStaffRepository(db), Secret: secret, TTL: ttl}
}

// Login checks the staff password and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *entity.Staff, error) {
	st, err := s.Repo.FindByEmail(s.DB.WithContext(ctx), strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, persistence("auth.login", err)
	}
	if !utils.CheckPassword(st.Password, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(st.ID, st.Role, s.Secret, s.TTL)
	if err != nil {
		return "", nil, persistence("auth.login", err)
	}
	return token, st, nil
}

func (s *AuthService) Me(ctx context.Context, id uint) (*entity.Staff, error) {
	st, err := s.Repo.FindByID(s.DB.WithContext(ctx), id)
	if err != nil {
		return nil, repoErr("auth.me", "", err)
	}
	return st, nil
}
