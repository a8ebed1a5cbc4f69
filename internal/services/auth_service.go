package services

import (
	"fmt"
	"time"

	"storefront/internal/repos"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const ownerSessionTTL = 24 * time.Hour

// AuthService authenticates the single store owner against configured
// credentials and manages server-side session tokens. The cookie carries
// only an opaque token; the session flag lives in the owner_sessions table.
type AuthService struct {
	Sessions *repos.SessionRepo

	ownerUsername string
	ownerHash     []byte
}

func NewAuthService(sessions *repos.SessionRepo, ownerUsername, ownerPassword string) (*AuthService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(ownerPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash owner password: %w", err)
	}
	return &AuthService{Sessions: sessions, ownerUsername: ownerUsername, ownerHash: hash}, nil
}

// Login checks the static owner credentials and mints a 24h session token.
func (s *AuthService) Login(username, password string) (string, error) {
	if username != s.ownerUsername {
		return "", ErrAuth
	}
	if bcrypt.CompareHashAndPassword(s.ownerHash, []byte(password)) != nil {
		return "", ErrAuth
	}
	token := uuid.NewString()
	if err := s.Sessions.Create(token, ownerSessionTTL); err != nil {
		return "", fmt.Errorf("create owner session: %w", err)
	}
	return token, nil
}

func (s *AuthService) Logout(token string) error {
	return s.Sessions.Delete(token)
}

// ValidSession reports whether the token refers to a live owner session.
func (s *AuthService) ValidSession(token string) bool {
	if token == "" {
		return false
	}
	ok, err := s.Sessions.Valid(token)
	return err == nil && ok
}
